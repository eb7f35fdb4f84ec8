package config

import (
	"fmt"

	"dealsync/model"

	"github.com/kelseyhightower/envconfig"
	log "github.com/sirupsen/logrus"
)

const DEVELOPMENT = "development"

// HubspotConf holds pipeline system access settings.
type HubspotConf struct {
	APIURL string `json:"api_url"`
	APIKey string `json:"api_key"`
}

// NotionConf holds directory store access settings.
type NotionConf struct {
	APIURL            string `json:"api_url"`
	Token             string `json:"token"`
	CompanyDatabaseID string `json:"company_database_id"`
	ContactDatabaseID string `json:"contact_database_id"`
	ProjectDatabaseID string `json:"project_database_id"`
}

// SyncConfig is the immutable sync behavior configuration. It is
// passed by value into the engine and adapters at construction so
// tests can substitute fixtures. Never read from global state.
type SyncConfig struct {
	// Native stage code -> canonical stage.
	StageAliasMap map[string]string
	// Canonical stage -> target store status.
	StageStatusMap map[string]string
	// Native stage codes that trigger project creation.
	CreationTriggerStages map[string]bool
	// Status used on create when the deal stage has no status mapping.
	DefaultStatus string
	// When false, existing projects are never updated.
	UpdatesEnabled bool
}

// CanonicalStage normalizes a native stage code. Codes absent from the
// alias map pass through unchanged - callers treat unmapped stages as
// valid input, not a failure.
func (sc *SyncConfig) CanonicalStage(nativeStage string) string {
	if canonical, exists := sc.StageAliasMap[nativeStage]; exists {
		return canonical
	}
	return nativeStage
}

// StatusForStage returns the target status for a canonical stage.
func (sc *SyncConfig) StatusForStage(stage string) (string, bool) {
	status, exists := sc.StageStatusMap[stage]
	return status, exists
}

// IsCreationTrigger returns true when the native stage code is part of
// the configured creation-trigger set.
func (sc *SyncConfig) IsCreationTrigger(nativeStage string) bool {
	return sc.CreationTriggerStages[nativeStage]
}

// DefaultSyncConfig returns the stock stage tables for a HubSpot style
// sales pipeline.
func DefaultSyncConfig() SyncConfig {
	return SyncConfig{
		StageAliasMap: map[string]string{
			"appointmentscheduled":  model.StageNew,
			"qualifiedtobuy":        model.StageDiscovery,
			"presentationscheduled": model.StageProposal,
			"contractsent":          model.StageNegotiation,
			"decisionmakerboughtin": model.StageNegotiation,
			"closedwon":             model.StageClosedWon,
			"closedlost":            model.StageClosedLost,
		},
		StageStatusMap: map[string]string{
			model.StageNew:         "Lead",
			model.StageDiscovery:   "Discovery",
			model.StageProposal:    "Proposal Sent",
			model.StageNegotiation: "Negotiating",
			model.StageClosedWon:   "Active",
			model.StageClosedLost:  "Lost",
		},
		CreationTriggerStages: map[string]bool{
			"closedwon": true,
		},
		DefaultStatus:  "Lead",
		UpdatesEnabled: true,
	}
}

type Configuration struct {
	AppName       string      `json:"app_name"`
	Env           string      `json:"env"`
	Port          int         `json:"port"`
	Hubspot       HubspotConf `json:"hubspot"`
	Notion        NotionConf  `json:"notion"`
	WebhookSecret string      `json:"webhook_secret"`
	Sync          SyncConfig  `json:"-"`
}

// envOverrides are applied on top of flag values so secrets need not
// be passed on the command line.
type envOverrides struct {
	HubspotAPIKey string `envconfig:"HUBSPOT_API_KEY"`
	NotionToken   string `envconfig:"NOTION_TOKEN"`
	WebhookSecret string `envconfig:"WEBHOOK_SECRET"`
}

var configuration *Configuration = nil

// InitConf initializes global configuration with env overrides and
// logging setup.
func InitConf(config *Configuration) error {
	if config == nil {
		return fmt.Errorf("nil configuration")
	}

	var env envOverrides
	if err := envconfig.Process("dealsync", &env); err != nil {
		log.WithError(err).Error("Failed to process env overrides.")
		return err
	}

	if env.HubspotAPIKey != "" {
		config.Hubspot.APIKey = env.HubspotAPIKey
	}
	if env.NotionToken != "" {
		config.Notion.Token = env.NotionToken
	}
	if env.WebhookSecret != "" {
		config.WebhookSecret = env.WebhookSecret
	}

	configuration = config
	initLogging()
	return nil
}

func initLogging() {
	// Log as JSON instead of the default ASCII formatter.
	log.SetFormatter(&log.JSONFormatter{})

	if IsDevelopment() {
		log.SetLevel(log.DebugLevel)
	}
}

func GetConfig() *Configuration {
	if configuration == nil {
		log.Fatal("Configuration not initialized.")
	}
	return configuration
}

func IsDevelopment() bool {
	return configuration != nil && configuration.Env == DEVELOPMENT
}

func GetWebhookSecret() string {
	return GetConfig().WebhookSecret
}
