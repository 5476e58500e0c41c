package logger

type LogLevel string

type Config struct {
	Level LogLevel `yaml:"level"`
	// OutputPath is "stdout", "stderr" or a file path opened for appending.
	OutputPath string `yaml:"output"`
	// Encoding is "console" or "json".
	Encoding string `yaml:"encoding"`
}

func DefaultConfig() Config {
	return Config{
		Level:      InfoLevel,
		OutputPath: "stderr",
		Encoding:   "console",
	}
}
