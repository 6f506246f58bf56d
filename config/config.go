package config

import (
	"os"
	"strconv"
	"strings"
)

var (
	TLS_DOMAINS        = ""   // e.g. "example.com,example2.com"
	PUSH_SERVER        = ""   // If set, new activities also trigger a push notification
	MYSQL_DSN          = ""   // MySQL will be used if this is set
	SQLITE_FILE        = ""   // SQLite will be used if MYSQL_DSN is not configured and this is set
	BIND_ADDRESS       = "0.0.0.0:8080"
	SESSION_STORE_KEY  = "this is a long key"
	TMP_DIR            = "/tmp" // Used as local scratch space in case of S3 buckets
	DEFAULT_BUCKET_DIR = ""     // Used for creating the initial disk bucket
	DEBUG_MODE         = true
	MAX_UPLOAD_SIZE    = 10 * 1024 * 1024        // Max photo file size in bytes
	USER_QUOTA_BYTES   = 10 * 1024 * 1024 * 1024 // Per-user storage quota in bytes, 0 disables the check
	DEFAULT_PAGE_SIZE  = 20
	MAX_PAGE_SIZE      = 100
)

func init() {
	readEnvString("TLS_DOMAINS", &TLS_DOMAINS)
	readEnvString("PUSH_SERVER", &PUSH_SERVER)
	readEnvString("MYSQL_DSN", &MYSQL_DSN)
	readEnvString("SQLITE_FILE", &SQLITE_FILE)
	readEnvString("BIND_ADDRESS", &BIND_ADDRESS)
	readEnvString("SESSION_STORE_KEY", &SESSION_STORE_KEY)
	readEnvString("TMP_DIR", &TMP_DIR)
	readEnvString("DEFAULT_BUCKET_DIR", &DEFAULT_BUCKET_DIR)
	readEnvBool("DEBUG_MODE", &DEBUG_MODE)
	readEnvInt("MAX_UPLOAD_SIZE", &MAX_UPLOAD_SIZE)
	readEnvInt("USER_QUOTA_BYTES", &USER_QUOTA_BYTES)
	readEnvInt("DEFAULT_PAGE_SIZE", &DEFAULT_PAGE_SIZE)
	readEnvInt("MAX_PAGE_SIZE", &MAX_PAGE_SIZE)
}

func readEnvString(name string, value *string) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	*value = v
}

func readEnvBool(name string, value *bool) {
	v := strings.ToLower(os.Getenv(name))
	if v == "true" || v == "1" || v == "yes" || v == "on" {
		*value = true
	} else if v == "false" || v == "0" || v == "no" || v == "off" {
		*value = false
	}
}

func readEnvInt(name string, value *int) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	f, err := strconv.Atoi(v)
	if err != nil {
		return
	}
	*value = f
}
