package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Leave is one inclusive employee-leave interval, day-precision source
// dates, shown on the date ribbon only.
type Leave struct {
	From string `yaml:"from" json:"from"`
	To   string `yaml:"to" json:"to"`
}

type Config struct {
	App struct {
		Port    int    `yaml:"port" json:"port"`
		DataDir string `yaml:"data_dir" json:"data_dir"`
	} `yaml:"app" json:"app"`

	Display struct {
		PageSize int `yaml:"page_size" json:"page_size"`
	} `yaml:"display" json:"display"`

	Ingest struct {
		Enabled          bool     `yaml:"enabled" json:"enabled"`
		IMAPHost         string   `yaml:"imap_host" json:"imap_host"`
		IMAPPort         int      `yaml:"imap_port" json:"imap_port"`
		Username         string   `yaml:"username" json:"username"`
		Mailbox          string   `yaml:"mailbox" json:"mailbox"`
		SearchSubjectAny []string `yaml:"search_subject_any" json:"search_subject_any"`
		PollSeconds      int      `yaml:"poll_seconds" json:"poll_seconds"`
		MaxMessages      int      `yaml:"max_messages" json:"max_messages"`
		RegistrationKey  string   `yaml:"registration_key" json:"registration_key"`
	} `yaml:"ingest" json:"ingest"`

	Enrich struct {
		Enabled        bool    `yaml:"enabled" json:"enabled"`
		ReqPerSec      float64 `yaml:"req_per_sec" json:"req_per_sec"`
		Burst          int     `yaml:"burst" json:"burst"`
		TimeoutSeconds int     `yaml:"timeout_seconds" json:"timeout_seconds"`
		PollSeconds    int     `yaml:"poll_seconds" json:"poll_seconds"`
	} `yaml:"enrich" json:"enrich"`

	Leaves []Leave `yaml:"leaves" json:"leaves"`
}

func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}
