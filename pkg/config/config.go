package config

import "os"

type Config struct {
	Port      string
	Env       string
	MongoURI  string
	MongoDB   string
	JWTSecret string
	UploadDir string
}

func Load() *Config {
	return &Config{
		Port:      getEnv("PORT", "8080"),
		Env:       getEnv("ENV", "development"),
		MongoURI:  getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:   getEnv("MONGO_DB", "connectify"),
		JWTSecret: getEnv("JWT_SECRET", "supersecretjwtkey"),
		UploadDir: getEnv("UPLOAD_DIR", "./uploads"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
