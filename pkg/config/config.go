package config

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"log"
	"os"
	"strconv"
)

func New() Config {
	return Config{
		ServerPort: requireEnv("SERVER_PORT"),
		Hostname:   requireEnv("HOSTNAME"),
		Postgresql: Postgresql{
			Host:         requireEnv("DATABASE_HOST"),
			Port:         requireEnvAsInt("DATABASE_PORT"),
			Username:     requireEnv("DATABASE_USERNAME"),
			Password:     requireEnv("DATABASE_PASSWORD"),
			DatabaseName: requireEnv("DATABASE_NAME"),
		},
		Redis: redis{
			Host: requireEnv("REDIS_HOST"),
			Port: requireEnvAsInt("REDIS_PORT"),
		},
		S3: s3{
			Bucket:    requireEnv("S3_BUCKET"),
			Region:    requireEnv("S3_REGION"),
			PublicURL: requireEnv("S3_PUBLIC_URL"),
		},
		Authentication: authentication{
			Keys: keys{
				PrivateKey: requireEnvAsRSAPrivateKey("PRIVATE_KEY"),
			},
			RefreshTokenSecretKey:         requireEnv("REFRESH_TOKEN_SECRET_KEY"),
			AccessTokenExpirationSeconds:  requireEnvAsInt("ACCESS_TOKEN_EXPIRATION_IN_SECONDS"),
			RefreshTokenExpirationSeconds: requireEnvAsInt("REFRESH_TOKEN_EXPIRATION_IN_SECONDS"),
		},
	}
}

type Config struct {
	ServerPort     string
	Hostname       string
	Postgresql     Postgresql
	Redis          redis
	S3             s3
	Authentication authentication
}

type Postgresql struct {
	Host         string
	Port         int
	Username     string
	Password     string
	DatabaseName string
}

type redis struct {
	Host string
	Port int
}

type s3 struct {
	Bucket string
	Region string
	// PublicURL is the base under which uploaded objects are reachable, such as
	// a CDN or the bucket website endpoint.
	PublicURL string
}

type authentication struct {
	Keys                          keys
	RefreshTokenSecretKey         string
	AccessTokenExpirationSeconds  int
	RefreshTokenExpirationSeconds int
}

type keys struct {
	PrivateKey *rsa.PrivateKey
}

func (k keys) GetPrivateKey() *rsa.PrivateKey {
	return k.PrivateKey
}

func (k keys) GetPublicKey() *rsa.PublicKey {
	return &k.PrivateKey.PublicKey
}

func requireEnv(key string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		log.Fatalf("Can't find environment variable: %s\n", key)
	}
	return value
}

func requireEnvAsInt(key string) int {
	valueStr := requireEnv(key)
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Fatalf("Can't parse value as integer: %s", err.Error())
	}
	return value
}

func requireEnvAsRSAPrivateKey(key string) *rsa.PrivateKey {
	value := requireEnv(key)
	privateKey, err := parseRSAPrivateKey([]byte(value))
	if err != nil {
		log.Fatalf("Can't parse %s: %s", key, err.Error())
	}
	return privateKey
}

func parseRSAPrivateKey(data []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("no PEM block found")
	}

	if key, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return key, nil
	}

	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, err
	}

	key, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("not an RSA private key")
	}
	return key, nil
}
