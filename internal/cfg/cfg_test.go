package cfg

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any)        {}
func (nopLogger) Infof(string, ...any)         {}
func (nopLogger) Warnf(string, ...any)         {}
func (nopLogger) Errorf(error, string, ...any) {}

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("POSTGRES_USER", "wearwhat")
	t.Setenv("POSTGRES_PASSWORD", "secret")
	t.Setenv("POSTGRES_DB", "wardrobe")
	t.Setenv("JWT_SECRET", "jwt-secret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	c, err := Load(nopLogger{})
	require.NoError(t, err)

	assert.Equal(t, "wardrobe_embeddings", c.Qdrant.QdrantCollectionName)
	assert.Equal(t, uint64(512), c.Qdrant.VectorSize)
	assert.Equal(t, VectorBackendQdrant, c.Qdrant.Backend)
	assert.Equal(t, EncoderStrategyCLIP, c.Ml.Strategy)
	assert.Equal(t, "ml-service:50051", c.Ml.Addr)
	assert.Equal(t, "outfit_recommendations", c.Minio.OutfitFolder)
	assert.Equal(t, c.Minio.MinioEndpoint, c.Minio.PublicHost)

	assert.Equal(t, 800, c.Styling.CanvasSize)
	assert.Equal(t, 90, c.Styling.JPEGQuality)
	assert.Equal(t, 3*time.Second, c.Styling.VectorTimeout)
	assert.Equal(t, 20*time.Second, c.Styling.DownloadTimeout)
	assert.Equal(t, 2, c.Styling.ReadAttempts)

	assert.Equal(t, []string{"kafka:9092"}, c.Kafka.Brokers)
	assert.Equal(t, "host=localhost port=5432 user=wearwhat password=secret dbname=wardrobe sslmode=disable", c.Db.DSN())
}

func TestLoad_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("VECTOR_BACKEND", "memory")
	t.Setenv("ENCODER_STRATEGY", "MOCK")
	t.Setenv("OUTFIT_CANVAS_SIZE", "1024")
	t.Setenv("VECTOR_TIMEOUT", "1500ms")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("MINIO_PUBLIC_HOST", "cdn.example.com")

	c, err := Load(nopLogger{})
	require.NoError(t, err)

	assert.Equal(t, VectorBackendMemory, c.Qdrant.Backend)
	assert.Equal(t, EncoderStrategyMock, c.Ml.Strategy)
	assert.Equal(t, 1024, c.Styling.CanvasSize)
	assert.Equal(t, 1500*time.Millisecond, c.Styling.VectorTimeout)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, c.Kafka.Brokers)
	assert.Equal(t, "cdn.example.com", c.Minio.PublicHost)
}

func TestLoad_MissingRequired(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("JWT_SECRET", "")

	_, err := Load(nopLogger{})
	assert.Error(t, err)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"ENCODER_STRATEGY":    "bert",
		"VECTOR_BACKEND":      "pgvector",
		"OUTFIT_JPEG_QUALITY": "101",
		"OUTFIT_CANVAS_SIZE":  "-5",
		"VECTOR_SIZE":         "0",
		"VECTOR_TIMEOUT":      "soon",
	}

	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(key, value)

			_, err := Load(nopLogger{})
			assert.Error(t, err)
		})
	}
}
