package settings

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/younsl/tagsched/internal/models"
	"github.com/younsl/tagsched/pkg/schedule"
	"github.com/younsl/tagsched/pkg/scheduler"
)

// Environment variable names
const (
	EnvTimezone         = "TIMEZONE"
	EnvEnableEC2        = "ENABLE_EC2"
	EnvEnableRDS        = "ENABLE_RDS"
	EnvEnableASG        = "ENABLE_ASG"
	EnvScheduleKey      = "TAG_SCHEDULE_KEY"
	EnvScheduleValue    = "TAG_SCHEDULE_VALUE"
	EnvStartKey         = "TAG_START_KEY"
	EnvStopKey          = "TAG_STOP_KEY"
	EnvWeekdayKey       = "TAG_WEEKDAY_KEY"
	EnvASGMinKey        = "TAG_ASG_MIN_KEY"
	EnvASGMaxKey        = "TAG_ASG_MAX_KEY"
	EnvASGDesiredKey    = "TAG_ASG_DESIRED_KEY"
	EnvNotifyTagKeys    = "NOTIFICATION_TAG_KEYS"
	EnvAccounts         = "ACCOUNTS_JSON"
	EnvLogLevel         = "LOG_LEVEL"
	EnvLogFormat        = "LOG_FORMAT"
	EnvMetricsNamespace = "METRICS_NAMESPACE"
)

// DefaultTimezone is used when TIMEZONE is unset or blank
const DefaultTimezone = "Asia/Seoul"

// LookupFunc reads one variable, reporting whether it is set. os.LookupEnv satisfies it.
type LookupFunc func(key string) (string, bool)

// Settings is the configuration of one run
type Settings struct {
	Timezone         string
	Enabled          scheduler.Enabled
	Schedule         schedule.Config
	NotifyTagKeys    []string
	Accounts         []models.Account
	LogLevel         string
	LogFormat        string
	MetricsNamespace string
}

// Load reads settings through lookup. Malformed or incomplete account
// entries are an error.
func Load(lookup LookupFunc) (*Settings, error) {
	get := func(key string) string {
		v, _ := lookup(key)
		return v
	}

	cfg := schedule.Config{
		FlagKey:     get(EnvScheduleKey),
		FlagValue:   schedule.DefaultFlagValue,
		StartKey:    get(EnvStartKey),
		StopKey:     get(EnvStopKey),
		WeekdaysKey: get(EnvWeekdayKey),
		Capacity: schedule.CapacityKeys{
			Min:     get(EnvASGMinKey),
			Max:     get(EnvASGMaxKey),
			Desired: get(EnvASGDesiredKey),
		},
	}
	// set but blank means any value of the flag tag matches
	if v, ok := lookup(EnvScheduleValue); ok {
		cfg.FlagValue = v
	}

	s := &Settings{
		Timezone: strings.TrimSpace(get(EnvTimezone)),
		Enabled: scheduler.Enabled{
			Compute:     boolEnv(lookup, EnvEnableEC2, true),
			Database:    boolEnv(lookup, EnvEnableRDS, false),
			AutoScaling: boolEnv(lookup, EnvEnableASG, false),
		},
		Schedule:         cfg.WithDefaults(),
		NotifyTagKeys:    ParseTagKeys(get(EnvNotifyTagKeys)),
		LogLevel:         strings.TrimSpace(get(EnvLogLevel)),
		LogFormat:        strings.TrimSpace(get(EnvLogFormat)),
		MetricsNamespace: strings.TrimSpace(get(EnvMetricsNamespace)),
	}
	if s.Timezone == "" {
		s.Timezone = DefaultTimezone
	}

	accounts, err := ParseAccounts([]byte(get(EnvAccounts)))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", EnvAccounts, err)
	}
	s.Accounts = accounts

	return s, nil
}

// boolEnv treats 1, true, yes and y (any case) as true
func boolEnv(lookup LookupFunc, key string, def bool) bool {
	v, ok := lookup(key)
	if !ok {
		return def
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "y":
		return true
	default:
		return false
	}
}

// ParseTagKeys accepts a JSON array or a comma separated list of tag keys.
// Blank entries are dropped.
func ParseTagKeys(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	var items []interface{}
	if strings.HasPrefix(raw, "[") && yaml.Unmarshal([]byte(raw), &items) == nil {
		var keys []string
		for _, item := range items {
			if item == nil {
				continue
			}
			if key := strings.TrimSpace(fmt.Sprint(item)); key != "" {
				keys = append(keys, key)
			}
		}
		return keys
	}

	var keys []string
	for _, part := range strings.Split(raw, ",") {
		if key := strings.TrimSpace(part); key != "" {
			keys = append(keys, key)
		}
	}
	return keys
}

// ParseAccounts decodes a JSON or YAML array of accounts and validates each entry.
// Blank input yields no accounts.
func ParseAccounts(data []byte) ([]models.Account, error) {
	if strings.TrimSpace(string(data)) == "" {
		return nil, nil
	}

	var accounts []models.Account
	if err := yaml.Unmarshal(data, &accounts); err != nil {
		return nil, fmt.Errorf("accounts must be an array of objects: %w", err)
	}

	for i, account := range accounts {
		if err := account.Validate(); err != nil {
			return nil, fmt.Errorf("account #%d: %w", i+1, err)
		}
	}
	return accounts, nil
}

// LoadAccountsFile reads accounts from a JSON or YAML file
func LoadAccountsFile(path string) ([]models.Account, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading accounts file: %w", err)
	}

	accounts, err := ParseAccounts(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return accounts, nil
}
