package util

import (
	_ "embed"
	"fmt"
	"log"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

const Name = "online"
const ConfigFileName = "config.yaml"

//go:embed config_default.yaml
var embeddedConfig []byte

type AppConfig struct {
	Conf struct {
		ApiUrl           string `yaml:"apiUrl"`
		RequestTimeout   int    `yaml:"requestTimeout"`
		NotifPollSeconds int    `yaml:"notifPollSeconds"`
		ChatPollSeconds  int    `yaml:"chatPollSeconds"`
		PageSize         int    `yaml:"pageSize"`
		LogFile          string `yaml:"logFile"`
	}
}

func ReadConf() (*AppConfig, error) {

	c := &AppConfig{}

	// Try to resolve config file path (local first, then user dir)
	configPath := ResolveFilePath(ConfigFileName)

	buf, err := os.ReadFile(configPath)
	if err != nil {
		// If file doesn't exist, use embedded config and create user config file
		log.Printf("Config file not found at %s, using embedded defaults", configPath)
		buf = embeddedConfig

		configDir, dirErr := GetConfigDir()
		if dirErr == nil {
			userConfigPath := configDir + "/" + ConfigFileName
			writeErr := os.WriteFile(userConfigPath, embeddedConfig, 0644)
			if writeErr != nil {
				log.Printf("Warning: could not write default config to %s: %v", userConfigPath, writeErr)
			} else {
				log.Printf("Created default config file at %s", userConfigPath)
			}
		}
	}

	err = yaml.Unmarshal(buf, c)
	if err != nil {
		return nil, fmt.Errorf("in config file: %w", err)
	}

	envApiUrl := os.Getenv("ONLINE_API_URL")
	envTimeout := os.Getenv("ONLINE_REQUEST_TIMEOUT")
	envNotifPoll := os.Getenv("ONLINE_NOTIF_POLL_SECONDS")
	envChatPoll := os.Getenv("ONLINE_CHAT_POLL_SECONDS")
	envPageSize := os.Getenv("ONLINE_PAGE_SIZE")
	envLogFile := os.Getenv("ONLINE_LOG_FILE")

	if envApiUrl != "" {
		c.Conf.ApiUrl = envApiUrl
	}

	if envTimeout != "" {
		v, err := strconv.Atoi(envTimeout)
		if err != nil {
			fmt.Println(err)
		}
		c.Conf.RequestTimeout = v
	}

	if envNotifPoll != "" {
		v, err := strconv.Atoi(envNotifPoll)
		if err != nil {
			fmt.Println(err)
		}
		c.Conf.NotifPollSeconds = v
	}

	if envChatPoll != "" {
		v, err := strconv.Atoi(envChatPoll)
		if err != nil {
			fmt.Println(err)
		}
		c.Conf.ChatPollSeconds = v
	}

	if envPageSize != "" {
		v, err := strconv.Atoi(envPageSize)
		if err != nil {
			fmt.Println(err)
		}
		c.Conf.PageSize = v
	}

	if envLogFile != "" {
		c.Conf.LogFile = envLogFile
	}

	if c.Conf.RequestTimeout <= 0 {
		c.Conf.RequestTimeout = 15
	}
	if c.Conf.NotifPollSeconds <= 0 {
		c.Conf.NotifPollSeconds = 30
	}
	if c.Conf.ChatPollSeconds <= 0 {
		c.Conf.ChatPollSeconds = 5
	}
	if c.Conf.PageSize <= 0 {
		c.Conf.PageSize = 20
	}

	return c, nil
}
