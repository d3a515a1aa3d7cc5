package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

const EnvProd = "production"
const EnvLocal = "local"
const EnvTest = "test"

const prefix = "GRIDVIEW"

var C Config

type Config struct {
	// Google
	GoogleProject string `envconfig:"GOOGLE_PROJECT"`

	// Logging
	LogFile string `envconfig:"LOG_FILE"`

	// Mongo
	MongoHost     string `envconfig:"MONGO_HOST"`
	MongoPort     string `envconfig:"MONGO_PORT" default:"27017"`
	MongoUsername string `envconfig:"MONGO_USERNAME"`
	MongoPassword string `envconfig:"MONGO_PASSWORD"`
	MongoDatabase string `envconfig:"MONGO_DATABASE" default:"gridview"`

	// Sessions
	SessionAuthentication string `envconfig:"SESSION_AUTHENTICATION"`
	SessionEncryption     string `envconfig:"SESSION_ENCRYPTION"`
	SessionDomain         string `envconfig:"SESSION_DOMAIN"`

	// Settings
	SettingsBoltPath   string `envconfig:"SETTINGS_BOLT_PATH" default:"/tmp/gridview/settings.db"`
	SettingsUseMongo   bool   `envconfig:"SETTINGS_USE_MONGO"`
	SettingsSessionTTL int    `envconfig:"SETTINGS_SESSION_TTL" default:"86400"` // Seconds

	// Tables
	TablesFile string `envconfig:"TABLES_FILE" default:"tables.yaml"`

	// Other
	Environment    string `envconfig:"ENV" default:"local"`
	AllowedOrigins string `envconfig:"ALLOWED_ORIGINS"`
	WebserverPort  string `envconfig:"PORT" default:"8080"`
	RemoteTimeout  int    `envconfig:"REMOTE_TIMEOUT" default:"10"` // Seconds
	GridTTL        int    `envconfig:"GRID_TTL" default:"3600"`     // Seconds

	// Set at runtime
	CommitHash string `ignored:"true"`
	Commits    string `ignored:"true"`
}

func Init(version, commits string) (err error) {

	err = envconfig.Process(prefix, &C)
	if err != nil {
		return err
	}

	switch C.Environment {
	case EnvProd, EnvLocal, EnvTest:
	default:
		return errors.New("config: unknown environment: " + C.Environment)
	}

	if IsLocal() && version == "" {
		version = "local"
	}

	C.CommitHash = version
	C.Commits = commits

	return nil
}

func MongoDSN() string {
	return "mongodb://" + C.MongoHost + ":" + C.MongoPort
}

func ListenOn() string {
	return "0.0.0.0:" + C.WebserverPort
}

func IsLocal() bool {
	return C.Environment == EnvLocal
}

func IsProd() bool {
	return C.Environment == EnvProd
}

func GetOrigins() (origins []string) {

	for _, v := range strings.Split(C.AllowedOrigins, ",") {
		v = strings.TrimSpace(v)
		if v != "" {
			origins = append(origins, v)
		}
	}

	return origins
}

func GetShortVersion() string {

	key := C.CommitHash
	if len(key) > 7 {
		key = key[0:7]
	}
	return key
}

// Tables

type Table struct {
	Name     string        `yaml:"name"`
	URL      string        `yaml:"url"`
	Entities TableEntities `yaml:"entities"`
	Columns  []TableColumn `yaml:"columns"`
}

type TableEntities struct {
	URL        string `yaml:"url"`        // HTTP loader
	Collection string `yaml:"collection"` // Mongo loader
	IDField    string `yaml:"id_field"`
}

type TableColumn struct {
	Key     string                 `yaml:"key"`
	Options map[string]interface{} `yaml:"options"`
}

var (
	ErrNoTables       = errors.New("no tables defined")
	ErrDuplicateTable = errors.New("duplicate table")
)

func LoadTables(path string) (tables []Table, err error) {

	b, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, errors.Wrap(err, "reading tables file")
	}

	return ParseTables(b)
}

func ParseTables(b []byte) (tables []Table, err error) {

	var file struct {
		Tables []Table `yaml:"tables"`
	}

	err = yaml.Unmarshal(b, &file)
	if err != nil {
		return nil, errors.Wrap(err, "parsing tables file")
	}

	if len(file.Tables) == 0 {
		return nil, ErrNoTables
	}

	seen := map[string]bool{}
	for k, t := range file.Tables {

		// yaml.v2 decodes nested maps with interface keys, which json can't encode
		for ck, c := range t.Columns {
			if c.Options != nil {
				file.Tables[k].Columns[ck].Options = normalize(c.Options).(map[string]interface{})
			}
		}

		if t.Name == "" || t.URL == "" {
			return nil, errors.Errorf("table %q: name and url are required", t.Name)
		}
		if len(t.Columns) == 0 {
			return nil, errors.Errorf("table %q: no columns", t.Name)
		}
		if t.Entities.URL == "" && t.Entities.Collection == "" {
			return nil, errors.Errorf("table %q: entities need a url or a collection", t.Name)
		}
		if seen[t.Name] {
			return nil, errors.Wrap(ErrDuplicateTable, t.Name)
		}
		seen[t.Name] = true
	}

	return file.Tables, nil
}

func normalize(v interface{}) interface{} {

	switch x := v.(type) {
	case map[interface{}]interface{}:
		m := make(map[string]interface{}, len(x))
		for k, val := range x {
			m[fmt.Sprint(k)] = normalize(val)
		}
		return m
	case map[string]interface{}:
		for k, val := range x {
			x[k] = normalize(val)
		}
		return x
	case []interface{}:
		for k, val := range x {
			x[k] = normalize(val)
		}
		return x
	default:
		return v
	}
}
