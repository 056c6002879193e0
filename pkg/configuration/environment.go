package configuration

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/evolvinutri/backend/pkg/logging"
)

const Production = "production"

var singleton = sync.OnceValue(func() *Configuration {
	c := &Configuration{}
	if err := c.load([]string{".env", ".env.local"}); err != nil {
		c.Unload()
		panic(err)
	}
	return c
})

func LoadEnv(envFiles []string) (int, error) {
	existingFiles := make([]string, 0, len(envFiles))
	for _, file := range envFiles {
		if _, err := os.Stat(file); err == nil {
			existingFiles = append(existingFiles, file)
		}
	}

	if len(existingFiles) == 0 {
		return 0, nil
	}

	return len(existingFiles), godotenv.Load(existingFiles...)
}

type DatabaseOptions struct {
	Opts     string `env:"-"`
	Name     string `env:"DB_NAME" envDefault:"evolvi_nutri"`
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     string `env:"DB_PORT" envDefault:"5432"`
	User     string `env:"DB_USER" envDefault:"postgres"`
	Password string `env:"DB_PASSWORD" envDefault:"postgres"`
}

func (d *DatabaseOptions) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s dbname=%s password=%s sslmode=disable",
		d.Host, d.Port, d.User, d.Name, d.Password,
	)
}

type MercadoPagoOptions struct {
	AccessToken string `env:"MERCADO_PAGO_TOKEN"`
	BaseURL     string `env:"MERCADO_PAGO_BASE_URL" envDefault:"https://api.mercadopago.com"`
}

type OpenAIOptions struct {
	Key         string  `env:"OPENAI_KEY"`
	BaseURL     string  `env:"OPENAI_BASE_URL"`
	Model       string  `env:"OPENAI_MODEL" envDefault:"gpt-4-turbo"`
	Temperature float64 `env:"OPENAI_TEMPERATURE" envDefault:"0.7"`
}

type ZAPIOptions struct {
	BaseURL     string `env:"ZAPI_BASE_URL" envDefault:"https://api.z-api.io"`
	InstanceID  string `env:"ZAPI_INSTANCE_ID"`
	Token       string `env:"ZAPI_TOKEN"`
	ClientToken string `env:"ZAPI_CLIENT_TOKEN"`
}

type ResendOptions struct {
	APIKey     string `env:"RESEND_API_KEY"`
	BaseURL    string `env:"RESEND_BASE_URL" envDefault:"https://api.resend.com"`
	PlanFrom   string `env:"RESEND_PLAN_FROM" envDefault:"Evolvi Nutri <contato@evolvinutri.com.br>"`
	AlertFrom  string `env:"RESEND_ALERT_FROM" envDefault:"Alerta de Novo Cliente Premium <alerta@evolvinutri.com.br>"`
	AdminEmail string `env:"ADMIN_EMAIL"`
}

type Configuration struct {
	Database    DatabaseOptions
	MercadoPago MercadoPagoOptions
	OpenAI      OpenAIOptions
	ZAPI        ZAPIOptions
	Resend      ResendOptions

	ServerPort       int    `env:"PORT" envDefault:"3333"`
	GoAppEnvironment string `env:"GO_APP_ENV" envDefault:"development"`
	SocketAddress    string `env:"-"`
	Domain           string `env:"DOMAIN" envDefault:"localhost"`
	Origin           string `env:"ORIGIN" envDefault:"http://localhost:3333"`
	FrontendURL      string `env:"FRONTEND_URL" envDefault:"http://localhost:3000"`
	LogLevel         string `env:"LOG_LEVEL" envDefault:"info"`
	LogPath          string `env:"LOG_PATH" envDefault:"./logs/app.log"`
	// The webhook handler looks for this header; a random uuidv4 is generated when absent.
	RequestIDHeader string `env:"REQUEST_ID_HEADER" envDefault:"X-Request-ID"`

	// Number of notifications the fulfillment dispatcher may queue; overflow is dropped and logged.
	FulfillmentQueueSize int `env:"FULFILLMENT_QUEUE_SIZE" envDefault:"64"`

	logFile *os.File
	logger  *logrus.Logger
}

func (c *Configuration) Logger() *logrus.Logger {
	return c.logger
}

func (c *Configuration) LogrusLogLevel() logrus.Level {
	switch c.LogLevel {
	case "silent":
		return logrus.PanicLevel
	case "error":
		return logrus.ErrorLevel
	case "warn":
		return logrus.WarnLevel
	case "info":
		return logrus.InfoLevel
	case "debug":
		return logrus.DebugLevel
	default:
		return logrus.InfoLevel
	}
}

func (c *Configuration) Scheme() string {
	if c.GoAppEnvironment == Production { // assume 'https' on production mode
		return "https"
	}
	return "http"
}

// WebhookURL is registered as notification_url on every checkout preference.
func (c *Configuration) WebhookURL() string {
	return c.Origin + "/api/webhook/payment"
}

func Use() *Configuration {
	return singleton()
}

func (c *Configuration) load(envFiles []string) error {
	n, err := LoadEnv(envFiles)
	if err != nil {
		return err
	}
	if n == 0 {
		wd, _ := os.Getwd()
		log.Println("No .env files found. Tried:")
		for _, file := range envFiles {
			log.Println(filepath.Join(wd, file))
		}
	}
	if err := env.Parse(c); err != nil {
		return err
	}
	if c.FulfillmentQueueSize <= 0 {
		return fmt.Errorf("FULFILLMENT_QUEUE_SIZE must be positive, got %d", c.FulfillmentQueueSize)
	}

	f, logger, err := logging.FileLogger(c.LogrusLogLevel(), c.LogPath)
	if err != nil {
		return err
	}
	c.logFile = f
	c.logger = logger

	c.Database.Opts = c.Database.ConnectionString()
	if c.GoAppEnvironment == Production {
		c.SocketAddress = fmt.Sprintf(":%d", c.ServerPort)
	} else {
		c.SocketAddress = fmt.Sprintf("localhost:%d", c.ServerPort)
	}

	if os.Getenv("ORIGIN") == "" {
		if c.GoAppEnvironment == "development" {
			c.Origin = fmt.Sprintf("%s://%s:%d", c.Scheme(), c.Domain, c.ServerPort)
		} else {
			c.Origin = fmt.Sprintf("%s://%s", c.Scheme(), c.Domain)
		}
	}

	return nil
}

// Unload handles a graceful shutdown.
func (c *Configuration) Unload() {
	if c.logFile != nil {
		if err := c.logFile.Close(); err != nil {
			log.Printf("Failed to close log file: %v", err)
		}
	}
}
