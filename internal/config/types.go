package config

// AppConfig holds runtime startup configuration loaded from YAML.
type AppConfig struct {
	Port           int                   `yaml:"port"`
	DSN            string                `yaml:"dsn"` // MySQL DSN
	RedisURL       string                `yaml:"redis_url"`
	Database       DatabaseRuntimeConfig `yaml:"database"`
	Redis          RedisRuntimeConfig    `yaml:"redis"`
	Env            string                `yaml:"env"` // "development" | "production"
	Paths          RuntimePathsConfig    `yaml:"paths"`
	AllowedOrigins []string              `yaml:"allowed_origins"`
	JWTSecret      string                `yaml:"jwt_secret"`
	Timezone       string                `yaml:"timezone"`
}

type DatabaseRuntimeConfig struct {
	DSN       string            `yaml:"dsn"`
	URL       string            `yaml:"url"`
	Host      string            `yaml:"host"`
	Port      int               `yaml:"port"`
	User      string            `yaml:"user"`
	Username  string            `yaml:"username"`
	Password  string            `yaml:"password"`
	Name      string            `yaml:"name"`
	DBName    string            `yaml:"db_name"`
	Charset   string            `yaml:"charset"`
	ParseTime bool              `yaml:"parse_time"`
	Loc       string            `yaml:"loc"`
	Params    map[string]string `yaml:"params"`
}

type RedisRuntimeConfig struct {
	URL      string            `yaml:"url"`
	Host     string            `yaml:"host"`
	Port     int               `yaml:"port"`
	Username string            `yaml:"username"`
	Password string            `yaml:"password"`
	DB       int               `yaml:"db"`
	TLS      bool              `yaml:"tls"`
	Scheme   string            `yaml:"scheme"`
	Params   map[string]string `yaml:"params"`
}

type RuntimePathsConfig struct {
	Logs    string `yaml:"logs"`
	Uploads string `yaml:"uploads"`
	Static  string `yaml:"static"`
}

// FullConfig is the application config stored in the database (options table,
// key="configs"). Admin-editable at runtime; see the configs service.
type FullConfig struct {
	Site           SiteConfig     `json:"site"`
	URL            URLConfig      `json:"url"`
	S3Options      S3Options      `json:"s3_options"`
	UploadOptions  UploadOptions  `json:"upload_options"`
	PaymentOptions PaymentOptions `json:"payment_options"`
	FeatureList    FeatureList    `json:"feature_list"`
	AuthSecurity   AuthSecurity   `json:"auth_security"`
	AI             AIConfig       `json:"ai"`
}

type SiteConfig struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Keywords    []string `json:"keywords"`
}

type URLConfig struct {
	WebURL    string `json:"web_url"`
	ServerURL string `json:"server_url"`
}

type S3Options struct {
	Endpoint        string `json:"endpoint"`
	AccessKeyID     string `json:"access_key_id"`
	SecretAccessKey string `json:"secret_access_key"`
	Bucket          string `json:"bucket"`
	Region          string `json:"region"`
	CustomDomain    string `json:"custom_domain"`
	PathStyleAccess bool   `json:"path_style_access"`
}

type UploadOptions struct {
	MaxSizeMB             int      `json:"max_size_mb"`
	AllowedImageFormats   []string `json:"allowed_image_formats"`
	AllowedVideoFormats   []string `json:"allowed_video_formats"`
	AllowedDocumentTypes  []string `json:"allowed_document_types"`
	ServeLocalWhenNoCloud bool     `json:"serve_local_when_no_cloud"`
}

type PaymentOptions struct {
	Enable    bool   `json:"enable"`
	Provider  string `json:"provider"` // razorpay
	KeyID     string `json:"key_id"`
	KeySecret string `json:"key_secret"`
	Currency  string `json:"currency"`
	Endpoint  string `json:"endpoint,omitempty"`
}

type FeatureList struct {
	OpenRegistration bool `json:"open_registration"`
}

type AuthSecurity struct {
	DisablePasswordLogin bool `json:"disable_password_login"`
}

type AIConfig struct {
	Providers []AIProvider `json:"providers"`
	// SummaryModel pins a provider/model pair. When unset, the ranked
	// candidate list below is probed in order and the first live model wins.
	SummaryModel              *AIModelAssignment `json:"summary_model,omitempty"`
	SummaryModelCandidates    []string           `json:"summary_model_candidates"`
	EnableSummary             bool               `json:"enable_summary"`
	EnableAutoGenerateSummary bool               `json:"enable_auto_generate_summary"`
}

type AIModelAssignment struct {
	ProviderID string `json:"provider_id"`
	Model      string `json:"model"`
}

type AIProvider struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Type         string `json:"type"` // gemini | openai | anthropic | openai-compatible
	APIKey       string `json:"api_key"`
	Endpoint     string `json:"endpoint,omitempty"`
	DefaultModel string `json:"default_model"`
	Enabled      bool   `json:"enabled"`
}
