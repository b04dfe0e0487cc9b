package model

import "time"

// Config holds the full runtime configuration for a sweep.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http" json:"http"`
	Store    StoreConfig    `yaml:"store" json:"store"`
	LLM      LLMConfig      `yaml:"llm" json:"llm"`
	Throttle ThrottleConfig `yaml:"throttle" json:"throttle"`
	Keywords KeywordConfig  `yaml:"keywords" json:"keywords"`
	Notify   NotifyConfig   `yaml:"notify" json:"notify"`
	Sites    []SiteProfile  `yaml:"sites" json:"sites"`

	Verbose bool `yaml:"verbose" json:"verbose"`
}

// HTTPConfig controls the fetcher.
type HTTPConfig struct {
	TimeoutHTML   time.Duration `yaml:"timeout_html" json:"timeout_html"`
	TimeoutPDF    time.Duration `yaml:"timeout_pdf" json:"timeout_pdf"`
	UserAgent     string        `yaml:"user_agent" json:"user_agent"`
	MaxRetries    int           `yaml:"max_retries" json:"max_retries"`
	BackoffBase   time.Duration `yaml:"backoff_base" json:"backoff_base"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes" json:"max_body_bytes"`
	MinBodyBytes  int           `yaml:"min_body_bytes" json:"min_body_bytes"`
	RespectRobots bool          `yaml:"respect_robots" json:"respect_robots"`
}

// StoreConfig locates the flat-file policy collection.
type StoreConfig struct {
	Path string `yaml:"path" json:"path"`
}

// LLMConfig configures the oracle provider. An empty Provider disables
// oracle calls entirely; the deterministic fallback is used for everything.
type LLMConfig struct {
	Provider  string `yaml:"provider" json:"provider"`
	Model     string `yaml:"model" json:"model"`
	APIKey    string `yaml:"api_key" json:"-"`
	BaseURL   string `yaml:"base_url" json:"base_url"`
	Timeout   int    `yaml:"timeout" json:"timeout"` // seconds
	MaxTokens int    `yaml:"max_tokens" json:"max_tokens"`
}

// ThrottleConfig paces outbound calls to respect external rate limits.
type ThrottleConfig struct {
	// PDFDelay is slept between consecutive PDF resolutions.
	PDFDelay time.Duration `yaml:"pdf_delay" json:"pdf_delay"`
	// AnalysisDelay is slept between consecutive oracle-backed analyses.
	AnalysisDelay time.Duration `yaml:"analysis_delay" json:"analysis_delay"`
	// DraftInterval is the minimum spacing between draft oracle call
	// starts, enforced process-wide by the draft queue.
	DraftInterval time.Duration `yaml:"draft_interval" json:"draft_interval"`
}

// KeywordConfig holds the tiered relevance vocabulary. The tiers feed the
// fallback scorer (+25/+15/+10); Generic feeds the keyword-density
// extraction fallback. Tuned against observed sites, so kept configurable.
type KeywordConfig struct {
	High    []string `yaml:"high" json:"high"`
	Medium  []string `yaml:"medium" json:"medium"`
	Low     []string `yaml:"low" json:"low"`
	Generic []string `yaml:"generic" json:"generic"`
}

// NotifyConfig configures outbound email notifications.
type NotifyConfig struct {
	Enabled  bool     `yaml:"enabled" json:"enabled"`
	SMTPHost string   `yaml:"smtp_host" json:"smtp_host"`
	SMTPPort string   `yaml:"smtp_port" json:"smtp_port"`
	From     string   `yaml:"from" json:"from"`
	Password string   `yaml:"password" json:"-"`
	To       []string `yaml:"to" json:"to"`
}

// SiteProfile describes one watched publication source: where to look and,
// for structured sites, ordered selector lists per field. Selector order is
// priority order; the first selector with at least one match wins.
type SiteProfile struct {
	Name    string `yaml:"name" json:"name"`
	BaseURL string `yaml:"base_url" json:"base_url"`

	// ConsultationPath is the site-specific listing path tried first,
	// before the conventional path variants.
	ConsultationPath string `yaml:"consultation_path" json:"consultation_path"`

	// PDFListing marks sites whose listings link to PDF circulars rather
	// than HTML detail pages.
	PDFListing bool `yaml:"pdf_listing" json:"pdf_listing"`

	Selectors FieldSelectors `yaml:"selectors" json:"selectors"`
}

// FieldSelectors are ordered CSS selector candidates per extracted field.
type FieldSelectors struct {
	Container   []string `yaml:"container" json:"container"`
	Title       []string `yaml:"title" json:"title"`
	Description []string `yaml:"description" json:"description"`
	Deadline    []string `yaml:"deadline" json:"deadline"`
	PDFLink     []string `yaml:"pdf_link" json:"pdf_link"`
}

// conventionalPaths are listing locations government sites commonly use,
// tried after the configured consultation path and before the site root.
var conventionalPaths = []string{
	"/consultations",
	"/public-consultations",
	"/notices",
	"/circulars",
	"/whats-new",
}

// URLVariants returns the candidate URLs for a site in trial order:
// configured consultation path, conventional paths, then the site root.
func (s *SiteProfile) URLVariants() []string {
	base := s.BaseURL
	for len(base) > 0 && base[len(base)-1] == '/' {
		base = base[:len(base)-1]
	}

	var variants []string
	seen := make(map[string]bool)
	add := func(u string) {
		if u != "" && !seen[u] {
			seen[u] = true
			variants = append(variants, u)
		}
	}

	if s.ConsultationPath != "" {
		add(base + s.ConsultationPath)
	}
	for _, p := range conventionalPaths {
		add(base + p)
	}
	add(base)

	return variants
}

// DefaultConfig returns sensible defaults tuned for Indian government
// publication sites.
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			TimeoutHTML:   15 * time.Second,
			TimeoutPDF:    30 * time.Second,
			UserAgent:     "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			MaxRetries:    3,
			BackoffBase:   2 * time.Second,
			MaxBodyBytes:  5_000_000,
			MinBodyBytes:  1000,
			RespectRobots: true,
		},
		Store: StoreConfig{
			Path: "policies.json",
		},
		LLM: LLMConfig{
			Provider:  "",
			Model:     "",
			Timeout:   30,
			MaxTokens: 1000,
		},
		Throttle: ThrottleConfig{
			PDFDelay:      2 * time.Second,
			AnalysisDelay: 1 * time.Second,
			DraftInterval: 5 * time.Second,
		},
		Keywords: DefaultKeywords(),
		Notify: NotifyConfig{
			SMTPHost: "smtp.gmail.com",
			SMTPPort: "587",
		},
		Sites: DefaultSites(),
	}
}

// DefaultKeywords returns the tiered relevance vocabulary.
func DefaultKeywords() KeywordConfig {
	return KeywordConfig{
		High: []string{
			"animal welfare", "animal cruelty", "livestock", "slaughter",
			"stray dogs", "cattle", "veterinary", "animal husbandry",
		},
		Medium: []string{
			"animal", "dairy", "poultry", "fisheries", "wildlife",
			"birds", "zoo", "pet",
		},
		Low: []string{
			"consultation", "draft rules", "amendment", "notification",
			"stakeholder", "comments invited", "feedback",
		},
		Generic: []string{
			"animal", "welfare", "livestock", "cattle", "veterinary",
			"consultation", "policy", "draft", "notification", "rules",
			"guidelines", "stakeholder",
		},
	}
}

// DefaultSites returns the built-in watch list.
func DefaultSites() []SiteProfile {
	return []SiteProfile{
		{
			Name:             "Animal Welfare Board of India",
			BaseURL:          "https://awbi.gov.in",
			ConsultationPath: "/circulars",
			PDFListing:       true,
			Selectors: FieldSelectors{
				Container:   []string{"table tbody tr", ".circular-item", ".view-content .views-row"},
				Title:       []string{"td:nth-child(2)", "a", ".title"},
				Description: []string{"td:nth-child(3)", ".description", "p"},
				Deadline:    []string{"td:nth-child(4)", ".date", "time"},
				PDFLink:     []string{"a[href$='.pdf']", "a[href*='.pdf']"},
			},
		},
		{
			Name:             "Department of Animal Husbandry and Dairying",
			BaseURL:          "https://dahd.gov.in",
			ConsultationPath: "/circulars",
			Selectors: FieldSelectors{
				Container:   []string{".view-content .views-row", "article", ".node-listing tr"},
				Title:       []string{"h2 a", "h3 a", ".field-title", "a"},
				Description: []string{".field-body", ".views-field-body", "p"},
				Deadline:    []string{".field-date", ".views-field-created", "time"},
				PDFLink:     []string{"a[href$='.pdf']"},
			},
		},
		{
			Name:             "Ministry of Environment, Forest and Climate Change",
			BaseURL:          "https://moef.gov.in",
			ConsultationPath: "/public-information/public-consultation",
			Selectors: FieldSelectors{
				Container:   []string{".consultation-list li", ".entry-content table tr", "article"},
				Title:       []string{"h2", "h3", "td:first-child", "a"},
				Description: []string{".excerpt", "td:nth-child(2)", "p"},
				Deadline:    []string{".deadline", "td:last-child", "time"},
				PDFLink:     []string{"a[href$='.pdf']"},
			},
		},
		{
			Name:             "Food Safety and Standards Authority of India",
			BaseURL:          "https://fssai.gov.in",
			ConsultationPath: "/notifications",
			PDFListing:       true,
			Selectors: FieldSelectors{
				Container:   []string{"#notifications table tr", ".notification-row", "table tbody tr"},
				Title:       []string{"td:nth-child(2)", "a"},
				Description: []string{"td:nth-child(3)", "p"},
				Deadline:    []string{"td:nth-child(4)", ".date"},
				PDFLink:     []string{"a[href$='.pdf']"},
			},
		},
	}
}
