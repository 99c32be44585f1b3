package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// ApplyEnv 读取 .env (可选) 与环境变量,覆盖JSON配置中的对应字段。
// 显式传入的 envPath 不存在时返回错误,默认的 .env 不存在则忽略。
func (c *Config) ApplyEnv(envPath ...string) error {
	if len(envPath) > 0 {
		if err := godotenv.Load(envPath...); err != nil {
			return fmt.Errorf("could not load env file (path: %v): %w", envPath, err)
		}
	} else if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("could not load .env file: %w", err)
	}

	c.AppName = getEnvAsString("APP_NAME", c.AppName)
	c.Server.Port = getEnvAsString("PORT", c.Server.Port)

	c.Log.Level = getEnvAsString("LOG_LEVEL", c.Log.Level)
	c.Log.JSON = getEnvAsBool("LOG_JSON", c.Log.JSON)
	c.Log.Color = getEnvAsBool("LOG_COLOR", c.Log.Color)

	c.FluentBit.Enabled = getEnvAsBool("FLUENTBIT_ENABLED", c.FluentBit.Enabled)
	c.FluentBit.Host = getEnvAsString("FLUENTBIT_HOST", c.FluentBit.Host)
	c.FluentBit.Port = getEnvAsInt("FLUENTBIT_PORT", c.FluentBit.Port)
	c.FluentBit.Level = getEnvAsString("FLUENTBIT_LOG_LEVEL", c.FluentBit.Level)
	if c.FluentBit.Enabled && c.FluentBit.Host == "" {
		log.Println("WARNING: FLUENTBIT_ENABLED is true, but FLUENTBIT_HOST is not set. Disabling Fluent Bit.")
		c.FluentBit.Enabled = false
	}

	c.Browser.Driver = getEnvAsString("BROWSER_DRIVER", c.Browser.Driver)
	c.Browser.Headless = getEnvAsBool("BROWSER_HEADLESS", c.Browser.Headless)
	c.Browser.Bin = getEnvAsString("BROWSER_BIN", c.Browser.Bin)

	c.Limits.MaxConcurrentBrowsers = getEnvAsInt("MAX_CONCURRENT_BROWSERS", c.Limits.MaxConcurrentBrowsers)

	return c.Validate()
}

func getEnvAsString(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt 变量存在但无法解析时记录警告并使用默认值
func getEnvAsInt(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valueInt, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as int: %v. Using default value: %d\n", key, valueStr, err, defaultValue)
		return defaultValue
	}
	return valueInt
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valBool, err := strconv.ParseBool(valStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as bool: %v. Using default value: %t\n", key, valStr, err, defaultValue)
		return defaultValue
	}
	return valBool
}
