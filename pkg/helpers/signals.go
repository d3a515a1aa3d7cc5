package helpers

import (
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/gamedb/gridview/pkg/log"
	"go.uber.org/zap"
)

// KeepAlive blocks until the process is told to stop, then runs the callbacks in parallel
func KeepAlive(callbacks ...func()) {

	var signals = []os.Signal{
		syscall.SIGTERM,
		syscall.SIGHUP,
		syscall.SIGQUIT,
		os.Interrupt,
	}

	signalsChan := make(chan os.Signal, len(signals))
	signal.Notify(signalsChan, signals...)

	s := <-signalsChan // Blocks

	log.Info("Shutting down", zap.String("signal", s.String()))

	var wg sync.WaitGroup
	for _, callback := range callbacks {
		wg.Add(1)
		go func(callback func()) {
			defer wg.Done()
			callback()
		}(callback)
	}
	wg.Wait()

	log.Flush()
}
