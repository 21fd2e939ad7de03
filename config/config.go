package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       App       `yaml:"app"`
	Server    Server    `yaml:"server"`
	Database  Database  `yaml:"database"`
	Queue     Queue     `yaml:"queue"`
	RabbitMQ  *RabbitMQ `yaml:"rabbitmq"`
	Redis     Redis     `yaml:"redis"`
	Storage   Storage   `yaml:"storage"`
	MinIO     MinIO     `yaml:"minio"`
	Transcode Transcode `yaml:"transcode"`
}

type App struct {
	Environment string `yaml:"environment"`
	Host        string `yaml:"host"`
	Protocol    string `yaml:"protocol"`
}

type Server struct {
	HttpPort string `yaml:"http_port"`
	Workers  int    `yaml:"workers"`
}

type Database struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

type Queue struct {
	Driver   string `yaml:"driver"`
	MaxTries uint   `yaml:"max_tries"`
}

type RabbitMQ struct {
	Host         string `json:"host"`
	Port         int    `json:"port"`
	User         string `json:"user"`
	Pass         string `json:"pass"`
	ExchangeName string `json:"exchange_name"`
	Kind         string `json:"kind"`
}

type Redis struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	LockTTL  time.Duration `yaml:"lock_ttl"`
}

type Storage struct {
	Driver    string `yaml:"driver"`
	MediaRoot string `yaml:"media_root"`
}

type MinIO struct {
	URL             string `yaml:"url"`
	AccessID        string `yaml:"access_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	Bucket          string `yaml:"bucket"`
	Secure          bool   `yaml:"secure"`
}

type Transcode struct {
	FFmpegPath string        `yaml:"ffmpeg_path"`
	WorkDir    string        `yaml:"work_dir"`
	Timeout    time.Duration `yaml:"timeout"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.environment", "develop")
	v.SetDefault("app.host", "localhost:8080")
	v.SetDefault("app.protocol", "http")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.workers", 2)
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("queue.driver", "rabbitmq")
	v.SetDefault("queue.max_tries", 5)
	v.SetDefault("rabbitmq.port", 5672)
	v.SetDefault("rabbitmq.kind", "topic")
	v.SetDefault("rabbitmq.exchange_name", "transcoding_exchange")
	v.SetDefault("redis.lock_ttl", 2*time.Hour)
	v.SetDefault("storage.driver", "local")
	v.SetDefault("storage.media_root", "media")
	v.SetDefault("transcode.ffmpeg_path", "ffmpeg")
	v.SetDefault("transcode.work_dir", "temp")
	v.SetDefault("transcode.timeout", 30*time.Minute)
}

// Load reads config.yaml from path. Every key can be overridden from the
// environment, e.g. DATABASE_DSN or RABBITMQ_HOST.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	return &Config{
		App: App{
			Environment: v.GetString("app.environment"),
			Host:        v.GetString("app.host"),
			Protocol:    v.GetString("app.protocol"),
		},
		Server: Server{
			HttpPort: v.GetString("server.port"),
			Workers:  v.GetInt("server.workers"),
		},
		Database: Database{
			Driver: v.GetString("database.driver"),
			DSN:    v.GetString("database.dsn"),
		},
		Queue: Queue{
			Driver:   v.GetString("queue.driver"),
			MaxTries: v.GetUint("queue.max_tries"),
		},
		RabbitMQ: &RabbitMQ{
			Host:         v.GetString("rabbitmq.host"),
			Port:         v.GetInt("rabbitmq.port"),
			User:         v.GetString("rabbitmq.user"),
			Pass:         v.GetString("rabbitmq.pass"),
			ExchangeName: v.GetString("rabbitmq.exchange_name"),
			Kind:         v.GetString("rabbitmq.kind"),
		},
		Redis: Redis{
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
			LockTTL:  v.GetDuration("redis.lock_ttl"),
		},
		Storage: Storage{
			Driver:    v.GetString("storage.driver"),
			MediaRoot: v.GetString("storage.media_root"),
		},
		MinIO: MinIO{
			URL:             v.GetString("minio.url"),
			AccessID:        v.GetString("minio.access_id"),
			SecretAccessKey: v.GetString("minio.secret_access_key"),
			Bucket:          v.GetString("minio.bucket"),
			Secure:          v.GetBool("minio.secure"),
		},
		Transcode: Transcode{
			FFmpegPath: v.GetString("transcode.ffmpeg_path"),
			WorkDir:    v.GetString("transcode.work_dir"),
			Timeout:    v.GetDuration("transcode.timeout"),
		},
	}, nil
}
