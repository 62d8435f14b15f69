package config

import "time"

// Config holds all configuration for the application
type Config struct {
	Environment string           `mapstructure:"environment"`
	Server      ServerConfig     `mapstructure:"server"`
	Database    DatabaseConfig   `mapstructure:"database"`
	Logger      LoggerConfig     `mapstructure:"logger"`
	Chain       ChainConfig      `mapstructure:"chain"`
	Deposit     DepositConfig    `mapstructure:"deposit"`
	Referral    ReferralConfig   `mapstructure:"referral"`
	Withdrawal  WithdrawalConfig `mapstructure:"withdrawal"`
	Payout      PayoutConfig     `mapstructure:"payout"`
	Auth        AuthConfig       `mapstructure:"auth"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host              string        `mapstructure:"host"`
	Port              int           `mapstructure:"port"`
	ReadTimeout       time.Duration `mapstructure:"readTimeout"`       // seconds
	WriteTimeout      time.Duration `mapstructure:"writeTimeout"`      // seconds
	IdleTimeout       time.Duration `mapstructure:"idleTimeout"`       // seconds
	ReadHeaderTimeout time.Duration `mapstructure:"readHeaderTimeout"` // seconds
	ShutdownTimeout   time.Duration `mapstructure:"shutdownTimeout"`   // seconds
}

// DatabaseConfig contains database connection settings
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	SSLMode         string        `mapstructure:"sslMode"`
	MaxOpenConns    int           `mapstructure:"maxOpenConns"`
	MaxIdleConns    int           `mapstructure:"maxIdleConns"`
	ConnMaxLifetime time.Duration `mapstructure:"connMaxLifetime"` // minutes
	ConnMaxIdleTime time.Duration `mapstructure:"connMaxIdleTime"` // minutes
	QueryTimeout    time.Duration `mapstructure:"queryTimeout"`    // seconds
	RetryAttempts   int           `mapstructure:"retryAttempts"`
	RetryDelay      time.Duration `mapstructure:"retryDelay"` // seconds
}

// LoggerConfig contains logger settings
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	TimeFormat string `mapstructure:"timeFormat"`
	CallerInfo bool   `mapstructure:"callerInfo"`
}

// ChainConfig contains on-chain transfer scanning settings
type ChainConfig struct {
	RPCEndpoints   []string      `mapstructure:"rpcEndpoints"`
	TokenAddress   string        `mapstructure:"tokenAddress"`
	TokenDecimals  int           `mapstructure:"tokenDecimals"`
	RequestTimeout time.Duration `mapstructure:"requestTimeout"` // seconds
	MaxChunkSpan   uint64        `mapstructure:"maxChunkSpan"`
	MinChunkSpan   uint64        `mapstructure:"minChunkSpan"`
	ChunkPauseMs   int           `mapstructure:"chunkPauseMs"`
	RetryPauseMs   int           `mapstructure:"retryPauseMs"`
	LookbackBlocks uint64        `mapstructure:"lookbackBlocks"`
}

// DepositConfig contains deposit crediting settings
type DepositConfig struct {
	AdminWallet            string `mapstructure:"adminWallet"`
	MinDepositCents        int64  `mapstructure:"minDepositCents"`
	ActivityThresholdCents int64  `mapstructure:"activityThresholdCents"`
	DailyUnitCents         int64  `mapstructure:"dailyUnitCents"`
	DailyProfitWindowHours int    `mapstructure:"dailyProfitWindowHours"`
}

// ReferralConfig contains referral program settings
type ReferralConfig struct {
	BaseURL string `mapstructure:"baseUrl"`
}

// WithdrawalConfig contains withdrawal settlement settings
type WithdrawalConfig struct {
	MinWithdrawalCents int64 `mapstructure:"minWithdrawalCents"`
}

// PayoutConfig contains the external payout provider settings
type PayoutConfig struct {
	BaseURL    string        `mapstructure:"baseUrl"`
	APIKey     string        `mapstructure:"apiKey"`
	APISecret  string        `mapstructure:"apiSecret"`
	Asset      string        `mapstructure:"asset"`
	Network    string        `mapstructure:"network"`
	Timeout    time.Duration `mapstructure:"timeout"` // seconds
	RecvWindow int64         `mapstructure:"recvWindow"`
}

// AuthConfig contains authentication settings
type AuthConfig struct {
	JWTSecret   string        `mapstructure:"jwtSecret"`
	TokenExpiry time.Duration `mapstructure:"tokenExpiry"` // hours
}
