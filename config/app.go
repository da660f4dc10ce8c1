package config

type App struct {
	Port        string `env:"APP_PORT" envDefault:"9090"`
	DatabaseURL string `env:"DATABASE_URL,required"`
	Env         string `env:"APP_ENV" envDefault:"dev"`
}

type Gateway struct {
	Port    string `env:"GATEWAY_PORT" envDefault:"8080"`
	CoreURL string `env:"CORE_URL" envDefault:"http://localhost:9090"`
	Env     string `env:"APP_ENV" envDefault:"dev"`
}
