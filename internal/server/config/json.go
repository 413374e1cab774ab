package config

import (
	"encoding/json"
	"os"

	"github.com/nuliana/getapet/internal/flagx"
)

// JsonConfig is the intermediate DTO for reading a JSON configuration file.
// Its values are copied into the runtime Config after unmarshalling.
type JsonConfig struct {
	Address     string `json:"address"`
	DatabaseDSN string `json:"database_dsn"`
	SecretKey   string `json:"secret_key"`
}

// parseJson loads configuration values from the JSON file named by the
// -c/-config flags. Without the flag no file is loaded. If the file cannot
// be read or contains invalid JSON, the function panics.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(data, c); err != nil {
		panic(err)
	}

	if c.Address != "" {
		config.Address = c.Address
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
}
