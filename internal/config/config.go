// Package config defines the application configuration and its loading
// rules. Every policy knob that has drifted across deployments of the
// platform (repetition threshold, badge thresholds, analytics window)
// is named configuration here rather than a constant in the code.
package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"    validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database"  validate:"required"`
	Auth      AuthConfig      `mapstructure:"auth"      validate:"required"`
	Content   ContentConfig   `mapstructure:"content"   validate:"required"`
	Badges    BadgeConfig     `mapstructure:"badges"    validate:"required"`
	Analytics AnalyticsConfig `mapstructure:"analytics" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret"             validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
	BcryptCost           int    `mapstructure:"bcrypt_cost"            validate:"gte=4,lte=31"`

	// Bootstrap admin credentials. Public signup rejects the admin role;
	// this seeding path is the only way an admin account is created.
	AdminEmail    string `mapstructure:"admin_email"`
	AdminPassword string `mapstructure:"admin_password"`
}

// ContentConfig tunes the compliance gate on story creation and edits.
type ContentConfig struct {
	// MinRepetitions is the TPRS threshold: every vocabulary term must
	// appear at least this many times in the story text.
	MinRepetitions int `mapstructure:"min_repetitions" validate:"required,gt=0"`
}

// BadgeConfig tunes badge eligibility thresholds.
type BadgeConfig struct {
	WordWizardWords   int `mapstructure:"word_wizard_words"   validate:"required,gt=0"`
	QuizMasterAnswers int `mapstructure:"quiz_master_answers" validate:"required,gt=0"`
}

// AnalyticsConfig tunes the rollup window and schedule.
type AnalyticsConfig struct {
	WindowDays int `mapstructure:"window_days" validate:"required,gt=0"`

	// SnapshotIntervalMinutes controls how often the background rollup
	// runs. Zero disables the schedule; snapshots can still be computed
	// on demand through the admin API.
	SnapshotIntervalMinutes int `mapstructure:"snapshot_interval_minutes" validate:"gte=0"`
}
