package utils

import (
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

// UtilsTestSuite defines a test suite for utils functions
type UtilsTestSuite struct {
	suite.Suite
	originalEnv map[string]string
}

// SetupTest runs before each test
func (suite *UtilsTestSuite) SetupTest() {
	suite.originalEnv = make(map[string]string)
	envVars := []string{
		"APP_NAME", "APP_VERSION", "APP_ENV", "APP_HOST", "APP_PORT",
		"JWT_SECRET", "JWT_EXPIRES_IN",
		"AWS_REGION", "AWS_ACCESS_KEY_ID", "AWS_SECRET_ACCESS_KEY",
		"DYNAMODB_ENDPOINT", "DYNAMODB_TABLE_PREFIX",
		"KAFKA_BROKER", "KAFKA_TOPIC",
		"LOG_LEVEL", "LOG_FORMAT",
		"CORS_ORIGINS", "BASEPATH",
	}

	for _, envVar := range envVars {
		suite.originalEnv[envVar] = os.Getenv(envVar)
		os.Unsetenv(envVar)
	}
}

// TearDownTest runs after each test
func (suite *UtilsTestSuite) TearDownTest() {
	for envVar, value := range suite.originalEnv {
		if value != "" {
			os.Setenv(envVar, value)
		} else {
			os.Unsetenv(envVar)
		}
	}
}

func TestUtilsTestSuite(t *testing.T) {
	suite.Run(t, new(UtilsTestSuite))
}

// TestGetConfigDefaults tests the defaulted configuration
func (suite *UtilsTestSuite) TestGetConfigDefaults() {
	config, err := GetConfig()
	assert.NoError(suite.T(), err)
	assert.NotNil(suite.T(), config)

	assert.Equal(suite.T(), "development", config.AppEnv)
	assert.Equal(suite.T(), "0.0.0.0", config.AppHost)
	assert.Equal(suite.T(), "ap-south-1", config.AWSRegion)
	assert.Equal(suite.T(), "dev", config.DynamoDBTablePrefix)
	assert.Equal(suite.T(), 15*time.Second, config.RequestTimeout)
	assert.Equal(suite.T(), "/api/v1", config.BasePath)
	assert.Equal(suite.T(), []string{"donations", "requests", "users", "audit"}, config.Tables)
	// Kafka is off until a broker is configured
	assert.Empty(suite.T(), config.KafkaBroker)
	assert.Equal(suite.T(), "sevasetu.notifications", config.KafkaTopic)
}

// TestGetConfigWithEnvironmentVariables tests env var overrides
func (suite *UtilsTestSuite) TestGetConfigWithEnvironmentVariables() {
	os.Setenv("APP_ENV", "testing")
	os.Setenv("AWS_REGION", "us-west-2")
	os.Setenv("DYNAMODB_TABLE_PREFIX", "test")
	os.Setenv("KAFKA_BROKER", "localhost:9092")

	config, err := GetConfig()
	assert.NoError(suite.T(), err)

	assert.Equal(suite.T(), "testing", config.AppEnv)
	assert.Equal(suite.T(), "us-west-2", config.AWSRegion)
	assert.Equal(suite.T(), "test", config.DynamoDBTablePrefix)
	assert.Equal(suite.T(), "localhost:9092", config.KafkaBroker)
}

// TestProductionRequiresRealJWTSecret rejects the placeholder secret
func (suite *UtilsTestSuite) TestProductionRequiresRealJWTSecret() {
	os.Setenv("APP_ENV", "production")

	_, err := GetConfig()
	assert.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "JWT_SECRET")
}

// TestGenerateUUID tests the GenerateUUID function
func (suite *UtilsTestSuite) TestGenerateUUID() {
	id := GenerateUUID()
	assert.NotEmpty(suite.T(), id)

	parsed, err := uuid.Parse(id)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), id, parsed.String())

	assert.NotEqual(suite.T(), id, GenerateUUID())
}

// TestHashAndCheckPassword round-trips a password through bcrypt
func (suite *UtilsTestSuite) TestHashAndCheckPassword() {
	hash, err := HashPassword("some-password")
	assert.NoError(suite.T(), err)
	assert.NotEqual(suite.T(), "some-password", hash)

	assert.True(suite.T(), CheckPassword(hash, "some-password"))
	assert.False(suite.T(), CheckPassword(hash, "other-password"))
}

// TestPrintPrettyJSON renders indented output
func (suite *UtilsTestSuite) TestPrintPrettyJSON() {
	out := PrintPrettyJSON(map[string]string{"key": "value"})
	assert.Contains(suite.T(), out, "\"key\": \"value\"")
}
