package core

import (
	"net"
	"net/mail"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type (
	DatabaseConfig struct {
		Engine     string // postgres | sqlite
		Host       string
		Port       int
		User       string
		Password   string
		Name       string
		DisableTLS bool
		Path       string // sqlite only
	}

	LDAPConfig struct {
		URL          string
		BindDN       string
		BindPassword string
		UserBase     string
		GroupBase    string
		StartTLS     bool
	}

	EmailConfig struct {
		SendgridAPIKey   string
		DefaultFromEmail string
		DefaultFromName  string
	}

	NotifyConfig struct {
		OneSignalAppID  string
		OneSignalAPIKey string
		URL             string
	}

	PacketConfig struct {
		StartHour              int
		EndHour                int
		DurationDays           int
		RequiredMiscSignatures int
		URL                    string
	}

	Config struct {
		Env          string
		Debug        bool
		TestMode     bool
		AppName      string
		Build        string
		Timezone     string
		RollbarToken string

		Database DatabaseConfig
		LDAP     LDAPConfig
		Email    EmailConfig
		Notify   NotifyConfig
		Packet   PacketConfig

		location *time.Location
	}
)

func (c DatabaseConfig) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

func (c *Config) DefaultFromEmail() mail.Address {
	return mail.Address{Name: c.Email.DefaultFromName, Address: c.Email.DefaultFromEmail}
}

// Location is the timezone operator-entered dates are interpreted in.
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.Local
	}
	return c.location
}

func setDefaults(v *viper.Viper) {
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("appName", "Packet")
	v.SetDefault("build", "develop")
	v.SetDefault("timezone", "America/New_York")
	v.SetDefault("rollbarToken", "")

	v.SetDefault("database.engine", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "packet")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "packet")
	v.SetDefault("database.disableTLS", false)
	v.SetDefault("database.path", "packet.db")

	v.SetDefault("ldap.url", "ldaps://ldap.csh.rit.edu:636")
	v.SetDefault("ldap.bindDN", "")
	v.SetDefault("ldap.bindPassword", "")
	v.SetDefault("ldap.userBase", "cn=users,cn=accounts,dc=csh,dc=rit,dc=edu")
	v.SetDefault("ldap.groupBase", "cn=groups,cn=accounts,dc=csh,dc=rit,dc=edu")
	v.SetDefault("ldap.startTLS", false)

	v.SetDefault("email.sendgridAPIKey", "")
	v.SetDefault("email.defaultFromEmail", "packet@csh.rit.edu")
	v.SetDefault("email.defaultFromName", "CSH Packet")

	v.SetDefault("notify.oneSignalAppID", "")
	v.SetDefault("notify.oneSignalAPIKey", "")
	v.SetDefault("notify.url", "https://api.onesignal.com/notifications")

	v.SetDefault("packet.startHour", 19)
	v.SetDefault("packet.endHour", 21)
	v.SetDefault("packet.durationDays", 14)
	v.SetDefault("packet.requiredMiscSignatures", 15)
	v.SetDefault("packet.url", "https://packet.csh.rit.edu")
}

// NewConfig loads the configuration from defaults, the optional `.env.<env>` file,
// the optional config file and finally the environment (prefixed with the env name).
func NewConfig(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	case "PROD":
		v.SetDefault("debug", false)
	}
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			return nil, errors.Wrapf(err, "loading %s", dotEnvPath)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "stat %s", dotEnvPath)
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "reading config file %s", configFile)
		}
	}
	v.AutomaticEnv()

	conf := &Config{
		Env:          env,
		Debug:        v.GetBool("debug"),
		TestMode:     v.GetBool("testMode"),
		AppName:      v.GetString("appName"),
		Build:        v.GetString("build"),
		Timezone:     v.GetString("timezone"),
		RollbarToken: v.GetString("rollbarToken"),
		Database: DatabaseConfig{
			Engine:     v.GetString("database.engine"),
			Host:       v.GetString("database.host"),
			Port:       v.GetInt("database.port"),
			User:       v.GetString("database.user"),
			Password:   v.GetString("database.password"),
			Name:       v.GetString("database.name"),
			DisableTLS: v.GetBool("database.disableTLS"),
			Path:       v.GetString("database.path"),
		},
		LDAP: LDAPConfig{
			URL:          v.GetString("ldap.url"),
			BindDN:       v.GetString("ldap.bindDN"),
			BindPassword: v.GetString("ldap.bindPassword"),
			UserBase:     v.GetString("ldap.userBase"),
			GroupBase:    v.GetString("ldap.groupBase"),
			StartTLS:     v.GetBool("ldap.startTLS"),
		},
		Email: EmailConfig{
			SendgridAPIKey:   v.GetString("email.sendgridAPIKey"),
			DefaultFromEmail: v.GetString("email.defaultFromEmail"),
			DefaultFromName:  v.GetString("email.defaultFromName"),
		},
		Notify: NotifyConfig{
			OneSignalAppID:  v.GetString("notify.oneSignalAppID"),
			OneSignalAPIKey: v.GetString("notify.oneSignalAPIKey"),
			URL:             v.GetString("notify.url"),
		},
		Packet: PacketConfig{
			StartHour:              v.GetInt("packet.startHour"),
			EndHour:                v.GetInt("packet.endHour"),
			DurationDays:           v.GetInt("packet.durationDays"),
			RequiredMiscSignatures: v.GetInt("packet.requiredMiscSignatures"),
			URL:                    strings.TrimRight(v.GetString("packet.url"), "/"),
		},
	}
	if err := conf.validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

func (c *Config) validate() error {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return errors.Wrapf(err, "loading timezone %q", c.Timezone)
	}
	c.location = loc

	switch c.Database.Engine {
	case "postgres", "sqlite":
	default:
		return errors.Errorf("unsupported database engine %q", c.Database.Engine)
	}
	if c.Packet.StartHour < 0 || c.Packet.StartHour > 23 || c.Packet.EndHour < 0 || c.Packet.EndHour > 23 {
		return errors.New("packet start and end hours must be within 0-23")
	}
	if c.Packet.DurationDays <= 0 {
		return errors.New("packet duration must be at least one day")
	}
	return nil
}
