package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Settings holds runtime (non-gameplay) settings for the binaries.
type Settings struct {
	Display DisplaySettings `yaml:"display"`
	SSH     SSHSettings     `yaml:"ssh"`
	Web     WebSettings     `yaml:"web"`
	Storage StorageSettings `yaml:"storage"`
	Log     LogSettings     `yaml:"log"`
}

// DisplaySettings controls the terminal frontend.
type DisplaySettings struct {
	FPS           int `yaml:"fps"`
	MaxTermWidth  int `yaml:"maxTermWidth"`
	MaxTermHeight int `yaml:"maxTermHeight"`
}

// SSHSettings configures cmd/ssh.
type SSHSettings struct {
	Host        string `yaml:"host"`
	Port        string `yaml:"port"`
	HostKeyPath string `yaml:"hostKeyPath"`
}

// WebSettings configures cmd/web.
type WebSettings struct {
	Host        string `yaml:"host"`
	Port        string `yaml:"port"`
	DisplayHost string `yaml:"displayHost"` // Host shown in the ssh command on the page
}

// StorageSettings configures the high-score store.
type StorageSettings struct {
	AppName string `yaml:"appName"`
}

// LogSettings configures logging. An empty File means stderr.
type LogSettings struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// DefaultSettings returns the built-in settings.
func DefaultSettings() Settings {
	return Settings{
		Display: DisplaySettings{
			FPS:           60,
			MaxTermWidth:  240,
			MaxTermHeight: 80,
		},
		SSH: SSHSettings{
			Host:        "::",
			Port:        "2222",
			HostKeyPath: "/app/keys/host_key",
		},
		Web: WebSettings{
			Host:        "0.0.0.0",
			Port:        "8080",
			DisplayHost: "your-server.com",
		},
		Storage: StorageSettings{
			AppName: "swarm_invaders",
		},
		Log: LogSettings{
			Level: "info",
		},
	}
}

// FrameTime returns the target duration of one frame.
func (d DisplaySettings) FrameTime() time.Duration {
	if d.FPS <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(d.FPS)
}

// LoadSettings reads settings from a YAML file on top of the defaults and
// then applies environment overrides. A missing file is not an error.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return s, fmt.Errorf("read settings: %w", err)
		default:
			if err := yaml.Unmarshal(data, &s); err != nil {
				return DefaultSettings(), fmt.Errorf("parse settings %s: %w", path, err)
			}
		}
	}

	s.applyEnv()
	return s, nil
}

func (s *Settings) applyEnv() {
	s.Display.FPS = GetEnvInt("INVADERS_FPS", s.Display.FPS)
	s.SSH.Host = GetEnv("SSH_HOST", s.SSH.Host)
	s.SSH.Port = GetEnv("SSH_PORT", s.SSH.Port)
	s.SSH.HostKeyPath = GetEnv("SSH_HOST_KEY", s.SSH.HostKeyPath)
	s.Web.Host = GetEnv("WEB_HOST", s.Web.Host)
	s.Web.Port = GetEnv("WEB_PORT", s.Web.Port)
	s.Web.DisplayHost = GetEnv("SSH_DISPLAY_HOST", s.Web.DisplayHost)
	s.Storage.AppName = GetEnv("INVADERS_APP_NAME", s.Storage.AppName)
	s.Log.Level = GetEnv("LOG_LEVEL", s.Log.Level)
	s.Log.File = GetEnv("LOG_FILE", s.Log.File)
}
