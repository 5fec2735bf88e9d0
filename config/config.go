package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	SourceMongo    = "mongo"
	SourcePostgres = "postgres"
)

type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	GRPC      GRPCConfig      `yaml:"grpc"`
	Source    SourceConfig    `yaml:"source"`
	Mongo     MongoConfig     `yaml:"mongo"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Kafka     KafkaConfig     `yaml:"kafka"`
	Dashboard DashboardConfig `yaml:"dashboard"`
}

type HTTPConfig struct {
	Address    string `yaml:"address" validate:"required"`
	SwaggerDir string `yaml:"swagger_dir"`
}

type GRPCConfig struct {
	Address string `yaml:"address"`
}

// SourceConfig selects the primary store and the flat-file fallback.
type SourceConfig struct {
	Primary            string `yaml:"primary" validate:"oneof=mongo postgres"`
	CSVPath            string `yaml:"csv_path"`
	LoadTimeoutSeconds int    `yaml:"load_timeout_seconds" validate:"gte=0"`
}

func (s SourceConfig) LoadTimeout() time.Duration {
	return time.Duration(s.LoadTimeoutSeconds) * time.Second
}

type MongoConfig struct {
	URI        string `yaml:"uri" validate:"required"`
	Database   string `yaml:"database" validate:"required"`
	Collection string `yaml:"collection" validate:"required"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
	Table    string `yaml:"table"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Addr               string `yaml:"addr"`
	Password           string `yaml:"password"`
	DB                 int    `yaml:"db"`
	SnapshotTTLSeconds int    `yaml:"snapshot_ttl_seconds" validate:"gte=0"`
}

func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

type KafkaConfig struct {
	Brokers      []string `yaml:"brokers"`
	EventsTopic  string   `yaml:"events_topic"`
	RefreshTopic string   `yaml:"refresh_topic"`
	GroupID      string   `yaml:"group_id"`
}

func (k KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0
}

type DashboardConfig struct {
	TopRoutes    int `yaml:"top_routes" validate:"gt=0"`
	TopCountries int `yaml:"top_countries" validate:"gt=0"`
}

// Default mirrors the addresses the dashboard has always used: a local
// MongoDB and the scraped CSV next to the binary.
func Default() Config {
	return Config{
		HTTP: HTTPConfig{Address: ":8080"},
		Source: SourceConfig{
			Primary:            SourceMongo,
			CSVPath:            "busist_flight.csv.csv",
			LoadTimeoutSeconds: 10,
		},
		Mongo: MongoConfig{
			URI:        "mongodb://localhost:27017/",
			Database:   "flight_routes_db",
			Collection: "flight_routess",
		},
		Database: DatabaseConfig{Table: "flight_routes", SSLMode: "disable", Port: 5432},
		Redis:    RedisConfig{SnapshotTTLSeconds: 3600},
		Kafka: KafkaConfig{
			EventsTopic:  "flight-routes.events",
			RefreshTopic: "flight-routes.refresh",
			GroupID:      "flight-routes-dashboard",
		},
		Dashboard: DashboardConfig{TopRoutes: 10, TopCountries: 5},
	}
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML on top of Default and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}
