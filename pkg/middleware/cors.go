package middleware

import (
	"net/http"

	"github.com/gamedb/gridview/pkg/config"
	"github.com/go-chi/cors"
)

// MiddlewareCors lets pages on other origins host the grids
func MiddlewareCors() func(next http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   config.GetOrigins(),
		AllowedMethods:   []string{"GET", "POST"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	}).Handler
}
