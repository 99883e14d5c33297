package config

import (
	"fmt"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"os"
	"strconv"
)

type Config struct {
	Port                         int64
	SecurecookieHashKeyPrevious  string
	SecurecookieBlockKeyPrevious string
	SecurecookieHashKeyCurrent   string
	SecurecookieBlockKeyCurrent  string
	SessionExpirationSeconds     int64
	SteamAPIKey                  string
	SteamOpenIDRealm             string
	SteamOpenIDReturnURL         string
	DBRootUser                   string
	DBRootPassword               string
	DBUser                       string
	DBPassword                   string
	DBIP                         string
	DBPort                       int64
	DBName                       string
	ArchivesDirFullPath          string
	GalleryDirFullPath           string
	PublicBaseURL                string
}

func EnvString(name string) string {
	s := os.Getenv(name)
	if s == "" {
		panic(fmt.Sprintf("env variable '%s' is not set", name))
	}
	return s
}

func EnvInt(name string) int64 {
	s := os.Getenv(name)
	if s == "" {
		panic(fmt.Sprintf("env variable '%s' is not set", name))
	}
	i, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		panic(err)
	}
	return i
}

func GetConfig(l *logrus.Logger) *Config {
	l.Infoln("loading config...")
	err := godotenv.Load()
	if err != nil {
		l.Fatal(err)
	}

	return &Config{
		Port:                         EnvInt("PORT"),
		SecurecookieHashKeyPrevious:  EnvString("SECURECOOKIE_HASH_KEY_PREVIOUS"),
		SecurecookieBlockKeyPrevious: EnvString("SECURECOOKIE_BLOCK_KEY_PREVIOUS"),
		SecurecookieHashKeyCurrent:   EnvString("SECURECOOKIE_HASH_KEY_CURRENT"),
		SecurecookieBlockKeyCurrent:  EnvString("SECURECOOKIE_BLOCK_KEY_CURRENT"),
		SessionExpirationSeconds:     EnvInt("SESSION_EXPIRATION_SECONDS"),
		SteamAPIKey:                  EnvString("STEAM_API_KEY"),
		SteamOpenIDRealm:             EnvString("STEAM_OPENID_REALM"),
		SteamOpenIDReturnURL:         EnvString("STEAM_OPENID_RETURN_URL"),
		DBRootUser:                   EnvString("DB_ROOT_USER"),
		DBRootPassword:               EnvString("DB_ROOT_PASSWORD"),
		DBUser:                       EnvString("DB_USER"),
		DBPassword:                   EnvString("DB_PASSWORD"),
		DBIP:                         EnvString("DB_IP"),
		DBPort:                       EnvInt("DB_PORT"),
		DBName:                       EnvString("DB_NAME"),
		ArchivesDirFullPath:          EnvString("ARCHIVES_DIR_FULL_PATH"),
		GalleryDirFullPath:           EnvString("GALLERY_DIR_FULL_PATH"),
		PublicBaseURL:                EnvString("PUBLIC_BASE_URL"),
	}
}
