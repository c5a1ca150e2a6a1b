package env

import "os"

type Env = string

const (
	DEV  Env = "DEV"
	PROD Env = "PROD"
)

func AppEnv() Env {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return DEV
}

func IsProduction() bool {
	return AppEnv() == PROD
}
