package cfg

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jimlawless/whereami"
	"github.com/vansh-khaneja/WearWhat-backend/pkg/e"
	"github.com/vansh-khaneja/WearWhat-backend/pkg/logger"
)

const (
	EncoderStrategyCLIP = "clip"
	EncoderStrategyMock = "mock"

	VectorBackendQdrant = "qdrant"
	VectorBackendMemory = "memory"
)

type Config struct {
	Minio   *MinIOCfg
	Http    *HTTPConfig
	Grpc    *GRPCConfig
	Db      *PGDBCfg
	Qdrant  *QdrantCfg
	Redis   *RedisCfg
	Ml      *MLServiceCfg
	Kafka   *KafkaCfg
	Styling *StylingCfg
	Auth    *AuthCfg
	OpenAI  *OpenAICfg
}

type KafkaCfg struct {
	Topic             string
	Brokers           []string
	NetworkMode       string
	Partitions        int
	ReplicationFactor int
}

type MinIOCfg struct {
	MinioEndpoint     string // Адрес конечной точки Minio
	PublicHost        string // Хост, под которым объекты доступны клиентам
	BucketName        string
	MinioRootUser     string
	MinioRootPassword string
	MinioUseSSL       bool
	UploadImagesLimit int    // Лимит на одновременные загрузки в S3
	WardrobeFolder    string // Папка для фото вещей
	OutfitFolder      string // Папка для собранных образов
}

type HTTPConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	SwaggerURL   string
}

type GRPCConfig struct {
	Port        string
	NetworkMode string
}

type PGDBCfg struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string

	MigrationsDir string
}

// DSN возвращает строку подключения в формате key=value.
func (c *PGDBCfg) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

type QdrantCfg struct {
	Backend              string // qdrant | memory
	Port                 int
	Host                 string
	ApiKey               string
	QdrantCollectionName string
	UseTLS               bool
	VectorSize           uint64
}

type RedisCfg struct {
	Addr        string
	Password    string
	User        string
	DB          int
	MaxRetries  int
	DialTimeout time.Duration
	Timeout     time.Duration
	GarmentTTL  time.Duration
}

type MLServiceCfg struct {
	Strategy      string // clip | mock
	Addr          string
	MaxConcurrent int
	MaxRetries    int
	Timeout       time.Duration
}

// StylingCfg - параметры подбора образа и рендера коллажа.
type StylingCfg struct {
	CanvasSize          int
	JPEGQuality         int
	VectorTimeout       time.Duration
	DownloadTimeout     time.Duration
	DownloadConcurrency int
	MaxDownloadBytes    int64
	ReadAttempts        int
}

type AuthCfg struct {
	JWTSecret string
}

type OpenAICfg struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Load безопасно загружает конфигурацию и возвращает ошибку в случае неудачи.
func Load(log logger.Logger) (*Config, error) {
	db, err := loadPGDBCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	http, err := loadHTTPConfig(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	redis, err := loadRedisCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	minio, err := loadMinIOCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	qdrant, err := loadQdrantCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	kafka, err := loadKafkaCfg()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	ml, err := loadMLServiceCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	styling, err := loadStylingCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	auth, err := loadAuthCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	openAI, err := loadOpenAICfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return &Config{
		Minio:   minio,
		Http:    http,
		Grpc:    loadGRPCConfig(),
		Db:      db,
		Qdrant:  qdrant,
		Redis:   redis,
		Ml:      ml,
		Kafka:   kafka,
		Styling: styling,
		Auth:    auth,
		OpenAI:  openAI,
	}, nil
}

func loadKafkaCfg() (*KafkaCfg, error) {
	const (
		defaultBrokers           = "kafka:9092"
		defaultTopic             = "wardrobe-events"
		defaultPartitions        = 3
		defaultReplicationFactor = 1
		defaultNetworkMode       = "tcp"
	)

	brokers := splitAndTrim(getEnvOrDefault("KAFKA_BROKERS", defaultBrokers))
	if len(brokers) == 0 {
		return nil, fmt.Errorf("KAFKA_BROKERS must contain at least one broker")
	}

	partitions, err := parseIntEnv("KAFKA_PARTITIONS", defaultPartitions)
	if err != nil {
		return nil, e.Wrap("KAFKA_PARTITIONS", err)
	}

	replicationFactor, err := parseIntEnv("REPLICATION_FACTOR", defaultReplicationFactor)
	if err != nil {
		return nil, e.Wrap("REPLICATION_FACTOR", err)
	}

	return &KafkaCfg{
		Brokers:           brokers,
		Topic:             getEnvOrDefault("KAFKA_TOPIC", defaultTopic),
		Partitions:        partitions,
		ReplicationFactor: replicationFactor,
		NetworkMode:       getEnvOrDefault("KAFKA_NETWORK_MODE", defaultNetworkMode),
	}, nil
}

func loadMinIOCfg(log logger.Logger) (*MinIOCfg, error) {
	const (
		defaultUseSSL         = false
		defaultEndpoint       = "minio:9000"
		defaultBucket         = "wearwhat"
		defaultUploadLimit    = 10
		defaultWardrobeFolder = "wardrobe"
		defaultOutfitFolder   = "outfit_recommendations"
	)

	useSSL, err := strconv.ParseBool(getEnvOrDefault("MINIO_USE_SSL", strconv.FormatBool(defaultUseSSL)))
	if err != nil {
		log.Errorf(err, "invalid MINIO_USE_SSL")
		return nil, err
	}

	uploadLimit, err := parseIntEnv("MINIO_UPLOAD_LIMIT", defaultUploadLimit)
	if err != nil {
		log.Errorf(err, "invalid MINIO_UPLOAD_LIMIT")
		return nil, err
	}

	endpoint := getEnvOrDefault("MINIO_ENDPOINT", defaultEndpoint)

	return &MinIOCfg{
		MinioEndpoint:     endpoint,
		PublicHost:        getEnvOrDefault("MINIO_PUBLIC_HOST", endpoint),
		BucketName:        getEnvOrDefault("BUCKET_NAME", defaultBucket),
		MinioRootUser:     getEnv("MINIO_ROOT_USER"),
		MinioRootPassword: getEnv("MINIO_ROOT_PASSWORD"),
		MinioUseSSL:       useSSL,
		UploadImagesLimit: uploadLimit,
		WardrobeFolder:    getEnvOrDefault("MINIO_WARDROBE_FOLDER", defaultWardrobeFolder),
		OutfitFolder:      getEnvOrDefault("MINIO_OUTFIT_FOLDER", defaultOutfitFolder),
	}, nil
}

func loadHTTPConfig(log logger.Logger) (*HTTPConfig, error) {
	const (
		defaultPort         = "8080"
		defaultReadTimeout  = 15 * time.Second
		defaultWriteTimeout = 60 * time.Second
		defaultIdleTimeout  = 60 * time.Second
	)

	port := getEnvOrDefault("HTTP_PORT", defaultPort)

	readTimeout, err := parseDurationEnv("HTTP_READ_TIMEOUT", defaultReadTimeout)
	if err != nil {
		log.Errorf(err, "invalid HTTP_READ_TIMEOUT")
		return nil, err
	}

	// Стилизация скачивает до пяти изображений, поэтому запас по записи больше, чем у обычного CRUD
	writeTimeout, err := parseDurationEnv("HTTP_WRITE_TIMEOUT", defaultWriteTimeout)
	if err != nil {
		log.Errorf(err, "invalid HTTP_WRITE_TIMEOUT")
		return nil, err
	}

	idleTimeout, err := parseDurationEnv("KEEP_ALIVE", defaultIdleTimeout)
	if err != nil {
		log.Errorf(err, "invalid KEEP_ALIVE")
		return nil, err
	}

	return &HTTPConfig{
		Port:         port,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
		SwaggerURL:   getEnvOrDefault("SWAGGER_URL", "http://localhost:"+port+"/swagger/doc.json"),
	}, nil
}

func loadGRPCConfig() *GRPCConfig {
	const (
		defaultPort        = "8091"
		defaultNetworkMode = "tcp"
	)

	return &GRPCConfig{
		Port:        getEnvOrDefault("GRPC_PORT", defaultPort),
		NetworkMode: getEnvOrDefault("GRPC_NETWORK_MODE", defaultNetworkMode),
	}
}

func loadPGDBCfg(log logger.Logger) (*PGDBCfg, error) {
	const (
		defaultHost    = "localhost"
		defaultPort    = "5432"
		defaultSSLMode = "disable"
		defaultMigDir  = "db/migrations"
	)

	user := getEnv("POSTGRES_USER")
	if user == "" {
		err := fmt.Errorf("POSTGRES_USER is required")
		log.Errorf(err, "missing POSTGRES_USER")
		return nil, err
	}

	password := getEnv("POSTGRES_PASSWORD")
	if password == "" {
		err := fmt.Errorf("POSTGRES_PASSWORD is required")
		log.Errorf(err, "missing POSTGRES_PASSWORD")
		return nil, err
	}

	dbName := getEnv("POSTGRES_DB")
	if dbName == "" {
		err := fmt.Errorf("POSTGRES_DB is required")
		log.Errorf(err, "missing POSTGRES_DB")
		return nil, err
	}

	return &PGDBCfg{
		Host:     getEnvOrDefault("POSTGRES_HOST", defaultHost),
		Port:     getEnvOrDefault("POSTGRES_PORT", defaultPort),
		User:     user,
		Password: password,
		DBName:   dbName,
		SSLMode:  getEnvOrDefault("SSL_MODE", defaultSSLMode),

		MigrationsDir: getEnvOrDefault("MIGRATIONS_DIR", defaultMigDir),
	}, nil
}

func loadQdrantCfg(logger logger.Logger) (*QdrantCfg, error) {
	const (
		defaultQdrantGRPCPort = "6334"
		defaultHost           = "localhost"
		defaultUseTLS         = false
		defaultVectorSize     = "512"
		defaultCollection     = "wardrobe_embeddings"
	)

	backend := strings.ToLower(getEnvOrDefault("VECTOR_BACKEND", VectorBackendQdrant))
	if backend != VectorBackendQdrant && backend != VectorBackendMemory {
		err := fmt.Errorf("unknown VECTOR_BACKEND %q", backend)
		logger.Errorf(err, "invalid VECTOR_BACKEND")
		return nil, err
	}

	port, err := strconv.Atoi(getEnvOrDefault("QDRANT_GRPC_PORT", defaultQdrantGRPCPort))
	if err != nil {
		logger.Errorf(err, "invalid QDRANT_GRPC_PORT")
		return nil, err
	}

	useTLS, err := strconv.ParseBool(getEnvOrDefault("QDRANT_USE_TLS", strconv.FormatBool(defaultUseTLS)))
	if err != nil {
		logger.Errorf(err, "invalid QDRANT_USE_TLS")
		return nil, err
	}

	vectorSize, err := strconv.ParseUint(getEnvOrDefault("VECTOR_SIZE", defaultVectorSize), 10, 64)
	if err != nil || vectorSize == 0 {
		if err == nil {
			err = e.ErrIncorrectEnvVariable
		}
		logger.Errorf(err, "invalid VECTOR_SIZE")
		return nil, err
	}

	return &QdrantCfg{
		Backend:              backend,
		Host:                 getEnvOrDefault("QDRANT_HOST", defaultHost),
		Port:                 port,
		ApiKey:               getEnv("QDRANT__SERVICE__API_KEY"),
		QdrantCollectionName: getEnvOrDefault("COLLECTION_NAME", defaultCollection),
		UseTLS:               useTLS,
		VectorSize:           vectorSize,
	}, nil
}

func loadRedisCfg(log logger.Logger) (*RedisCfg, error) {
	const (
		defaultAddr         = "localhost:6379"
		defaultDB           = 0
		defaultMaxRetries   = 3
		defaultDialTimeout  = 5 * time.Second
		defaultReadTimeout  = 3 * time.Second
		defaultWriteTimeout = 3 * time.Second
		defaultGarmentTTL   = 5 * time.Minute
	)

	db, err := parseIntEnv("REDIS_DB_ID", defaultDB)
	if err != nil {
		log.Errorf(err, "invalid REDIS_DB_ID")
		return nil, err
	}

	maxRetries, err := parseIntEnv("MAX_RETRIES", defaultMaxRetries)
	if err != nil {
		log.Errorf(err, "invalid MAX_RETRIES")
		return nil, err
	}

	dialTimeout, err := parseDurationEnv("DIAL_TIMEOUT", defaultDialTimeout)
	if err != nil {
		log.Errorf(err, "invalid DIAL_TIMEOUT")
		return nil, err
	}

	readTimeout, err := parseDurationEnv("READ_TIMEOUT", defaultReadTimeout)
	if err != nil {
		log.Errorf(err, "invalid READ_TIMEOUT")
		return nil, err
	}

	writeTimeout, err := parseDurationEnv("WRITE_TIMEOUT", defaultWriteTimeout)
	if err != nil {
		log.Errorf(err, "invalid WRITE_TIMEOUT")
		return nil, err
	}

	garmentTTL, err := parseDurationEnv("GARMENT_TTL", defaultGarmentTTL)
	if err != nil {
		log.Errorf(err, "invalid GARMENT_TTL")
		return nil, err
	}

	return &RedisCfg{
		Addr:        getEnvOrDefault("REDIS_ADDR", defaultAddr),
		Password:    getEnv("REDIS_PASSWORD"),
		User:        getEnv("REDIS_USER"),
		DB:          db,
		MaxRetries:  maxRetries,
		DialTimeout: dialTimeout,
		Timeout:     max(readTimeout, writeTimeout),
		GarmentTTL:  garmentTTL,
	}, nil
}

func loadMLServiceCfg(log logger.Logger) (*MLServiceCfg, error) {
	const (
		defaultHost          = "ml-service"
		defaultPort          = "50051"
		defaultMaxConcurrent = 8
		defaultMaxRetries    = 3
		defaultTimeout       = 30 * time.Second
	)

	strategy := strings.ToLower(getEnvOrDefault("ENCODER_STRATEGY", EncoderStrategyCLIP))
	if strategy != EncoderStrategyCLIP && strategy != EncoderStrategyMock {
		err := fmt.Errorf("unknown ENCODER_STRATEGY %q", strategy)
		log.Errorf(err, "invalid ENCODER_STRATEGY")
		return nil, err
	}

	maxConcurrent, err := parseIntEnv("ML_MAX_CONCURRENT", defaultMaxConcurrent)
	if err != nil {
		log.Errorf(err, "invalid ML_MAX_CONCURRENT")
		return nil, err
	}

	timeout, err := parseDurationEnv("ML_TIMEOUT", defaultTimeout)
	if err != nil {
		log.Errorf(err, "invalid ML_TIMEOUT")
		return nil, err
	}

	return &MLServiceCfg{
		Strategy:      strategy,
		Addr:          getEnvOrDefault("ML_HOST", defaultHost) + ":" + getEnvOrDefault("ML_PORT", defaultPort),
		MaxConcurrent: maxConcurrent,
		MaxRetries:    defaultMaxRetries,
		Timeout:       timeout,
	}, nil
}

func loadStylingCfg(log logger.Logger) (*StylingCfg, error) {
	const (
		defaultCanvasSize          = 800
		defaultJPEGQuality         = 90
		defaultVectorTimeout       = 3 * time.Second
		defaultDownloadTimeout     = 20 * time.Second
		defaultDownloadConcurrency = 5
		defaultMaxDownloadBytes    = 20 << 20
		defaultReadAttempts        = 2
	)

	canvas, err := parseIntEnv("OUTFIT_CANVAS_SIZE", defaultCanvasSize)
	if err != nil || canvas <= 0 {
		log.Errorf(err, "invalid OUTFIT_CANVAS_SIZE")
		return nil, e.ErrIncorrectEnvVariable
	}

	quality, err := parseIntEnv("OUTFIT_JPEG_QUALITY", defaultJPEGQuality)
	if err != nil || quality < 1 || quality > 100 {
		log.Errorf(err, "invalid OUTFIT_JPEG_QUALITY")
		return nil, e.ErrIncorrectEnvVariable
	}

	vectorTimeout, err := parseDurationEnv("VECTOR_TIMEOUT", defaultVectorTimeout)
	if err != nil {
		log.Errorf(err, "invalid VECTOR_TIMEOUT")
		return nil, err
	}

	downloadTimeout, err := parseDurationEnv("IMAGE_DOWNLOAD_TIMEOUT", defaultDownloadTimeout)
	if err != nil {
		log.Errorf(err, "invalid IMAGE_DOWNLOAD_TIMEOUT")
		return nil, err
	}

	concurrency, err := parseIntEnv("IMAGE_DOWNLOAD_CONCURRENCY", defaultDownloadConcurrency)
	if err != nil || concurrency <= 0 {
		log.Errorf(err, "invalid IMAGE_DOWNLOAD_CONCURRENCY")
		return nil, e.ErrIncorrectEnvVariable
	}

	attempts, err := parseIntEnv("READ_ATTEMPTS", defaultReadAttempts)
	if err != nil || attempts <= 0 {
		log.Errorf(err, "invalid READ_ATTEMPTS")
		return nil, e.ErrIncorrectEnvVariable
	}

	return &StylingCfg{
		CanvasSize:          canvas,
		JPEGQuality:         quality,
		VectorTimeout:       vectorTimeout,
		DownloadTimeout:     downloadTimeout,
		DownloadConcurrency: concurrency,
		MaxDownloadBytes:    defaultMaxDownloadBytes,
		ReadAttempts:        attempts,
	}, nil
}

func loadAuthCfg(log logger.Logger) (*AuthCfg, error) {
	secret := getEnv("JWT_SECRET")
	if secret == "" {
		err := fmt.Errorf("JWT_SECRET is required")
		log.Errorf(err, "missing JWT_SECRET")
		return nil, err
	}

	return &AuthCfg{JWTSecret: secret}, nil
}

func loadOpenAICfg(log logger.Logger) (*OpenAICfg, error) {
	const (
		defaultModel   = "gpt-4o-mini"
		defaultTimeout = 20 * time.Second
	)

	timeout, err := parseDurationEnv("OPENAI_TIMEOUT", defaultTimeout)
	if err != nil {
		log.Errorf(err, "invalid OPENAI_TIMEOUT")
		return nil, err
	}

	apiKey := getEnv("OPENAI_API_KEY")
	if apiKey == "" {
		log.Warnf("OPENAI_API_KEY is empty, recommendations will use the built-in advisor")
	}

	return &OpenAICfg{
		APIKey:  apiKey,
		BaseURL: getEnv("OPENAI_BASE_URL"),
		Model:   getEnvOrDefault("OPENAI_MODEL", defaultModel),
		Timeout: timeout,
	}, nil
}

// getEnv возвращает значение переменной окружения.
// Возвращает пустую строку, если переменная не задана.
func getEnv(key string) string {
	return os.Getenv(key)
}

// getEnvOrDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return defaultValue
}

// parseDurationEnv считывает длительность или возвращает значение по умолчанию.
func parseDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	if v := os.Getenv(key); v != "" {
		return time.ParseDuration(v)
	}

	return defaultValue, nil
}

func parseIntEnv(key string, defaultValue int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}

	intValue, err := strconv.Atoi(v)
	if err != nil {
		return defaultValue, e.ErrIncorrectEnvVariable
	}

	return intValue, nil
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	res := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			res = append(res, p)
		}
	}

	return res
}
