package config

import (
	"os"
	"path"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Public  Public
	Private Private
}

type Public struct {
	Mongo          Mongo         `yaml:"mongo"`
	ListenAddr     string        `yaml:"listen_addr"`
	CorsOrigin     string        `yaml:"cors_origin"`
	FileStoreRoot  string        `yaml:"file_store_root"`
	FileURLPrefix  string        `yaml:"file_url_prefix"` // base of retrieval urls handed to clients
	JwtTTL         time.Duration `yaml:"jwt_ttl"`
	LogLevel       string        `yaml:"log_level"`
	LogJSON        bool          `yaml:"log_json"`
	SecureCookies  bool          `yaml:"secure_cookies"`
	ExamsPerPage   int           `yaml:"exams_per_page"`
	ThreadsPerPage int           `yaml:"threads_per_page"`
}

type Mongo struct {
	URI    string `yaml:"uri"`
	Dbname string `yaml:"dbname"`
}

type Private struct {
	JwtKey string `yaml:"jwt_key"`
}

func (s *Config) JwtKey() string {
	return s.Private.JwtKey
}

func (s *Config) JwtTTL() time.Duration {
	return s.Public.JwtTTL
}

func mustLoadPath(configPath string, output interface{}) {
	// check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		panic("can't read config file")
	}

	err = yaml.Unmarshal(configFile, output)
	if err != nil {
		panic("can't unmarshal config file")
	}
}

func MustLoad(configFolder string) *Config {
	var public Public
	mustLoadPath(path.Join(configFolder, "public.yaml"), &public)

	var private Private
	mustLoadPath(path.Join(configFolder, "private.yaml"), &private)

	return &Config{public, private}
}
