package config

import (
	"log"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// AppConfig 应用配置
var AppConfig struct {
	// 服务器配置
	Port      string
	Mode      string // debug 或 release
	JWTSecret string

	// HTTP超时配置（秒）
	ServerReadTimeout  int
	ServerWriteTimeout int
	ServerIdleTimeout  int

	// Redis配置（缓存与限流）
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPoolSize int

	// Kafka配置（用于约球通知事件）
	KafkaBootstrapServers []string
	KafkaTopicPrefix      string

	// 数据库配置
	DBConnectionString string
	DBMaxIdleConns     int
	DBMaxOpenConns     int

	// 缓存配置
	CacheExpiration int // 缓存过期时间（秒）

	// 报名操作乐观锁最大重试次数
	RegisterMaxRetries int
}

// LoadConfig 从环境变量加载配置
func LoadConfig() {
	// 尝试加载.env文件
	err := godotenv.Load()
	if err != nil {
		log.Println("未找到.env文件，将使用环境变量")
	}

	// 服务器配置
	AppConfig.Port = getEnv("PORT", "8080")
	AppConfig.Mode = getEnv("MODE", "debug")
	AppConfig.JWTSecret = getEnv("JWT_SECRET", "your-secret-key")

	// HTTP超时配置
	AppConfig.ServerReadTimeout = getEnvInt("SERVER_READ_TIMEOUT", 30)
	AppConfig.ServerWriteTimeout = getEnvInt("SERVER_WRITE_TIMEOUT", 30)
	AppConfig.ServerIdleTimeout = getEnvInt("SERVER_IDLE_TIMEOUT", 120)

	// Redis配置
	AppConfig.RedisAddr = getEnv("REDIS_ADDR", "localhost:6379")
	AppConfig.RedisPassword = getEnv("REDIS_PASSWORD", "")

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		redisDB = 0
	}
	AppConfig.RedisDB = redisDB

	redisPoolSize, err := strconv.Atoi(getEnv("REDIS_POOL_SIZE", strconv.Itoa(runtime.NumCPU()*10)))
	if err != nil {
		redisPoolSize = runtime.NumCPU() * 10
	}
	AppConfig.RedisPoolSize = redisPoolSize

	// Kafka配置
	kafkaServers := getEnv("KAFKA_BOOTSTRAP_SERVERS", "localhost:9092")
	AppConfig.KafkaBootstrapServers = strings.Split(kafkaServers, ",")
	AppConfig.KafkaTopicPrefix = getEnv("KAFKA_TOPIC_PREFIX", "matchday-")

	// 数据库配置
	AppConfig.DBConnectionString = getEnv("DB_CONNECTION_STRING", "root:password@tcp(127.0.0.1:3306)/matchday?charset=utf8mb4&parseTime=True&loc=Local")

	dbMaxIdleConns, err := strconv.Atoi(getEnv("DB_MAX_IDLE_CONNS", "10"))
	if err != nil {
		dbMaxIdleConns = 10
	}
	AppConfig.DBMaxIdleConns = dbMaxIdleConns

	dbMaxOpenConns, err := strconv.Atoi(getEnv("DB_MAX_OPEN_CONNS", "100"))
	if err != nil {
		dbMaxOpenConns = 100
	}
	AppConfig.DBMaxOpenConns = dbMaxOpenConns

	// 缓存配置
	cacheExpiration, err := strconv.Atoi(getEnv("CACHE_EXPIRATION", "300"))
	if err != nil {
		cacheExpiration = 300
	}
	AppConfig.CacheExpiration = cacheExpiration

	// 并发冲突重试次数
	registerRetries, err := strconv.Atoi(getEnv("REGISTER_MAX_RETRIES", "3"))
	if err != nil {
		registerRetries = 3
	}
	AppConfig.RegisterMaxRetries = registerRetries

	log.Println("配置加载完成")
}

// getEnv 获取环境变量，如果不存在则返回默认值
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt 获取整型环境变量，解析失败时返回默认值
func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(getEnv(key, strconv.Itoa(defaultValue)))
	if err != nil {
		return defaultValue
	}
	return value
}
