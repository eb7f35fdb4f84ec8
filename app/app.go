package main

import (
	"flag"
	"strconv"
	"strings"

	C "dealsync/config"
	H "dealsync/handler"
	IntHubspot "dealsync/integration/hubspot"
	IntNotion "dealsync/integration/notion"
	"dealsync/syncer"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// ./app --env=development --port=8080 --hubspot_api_key=xxx --notion_token=yyy --notion_company_db=id1 --notion_contact_db=id2 --notion_project_db=id3 --creation_trigger_stages=closedwon
func main() {
	env := flag.String("env", "development", "")
	port := flag.Int("port", 8080, "")

	hubspotAPIURL := flag.String("hubspot_api_url", "https://api.hubapi.com", "")
	hubspotAPIKey := flag.String("hubspot_api_key", "", "")

	notionAPIURL := flag.String("notion_api_url", "https://api.notion.com", "")
	notionToken := flag.String("notion_token", "", "")
	notionCompanyDB := flag.String("notion_company_db", "", "Directory database id for companies")
	notionContactDB := flag.String("notion_contact_db", "", "Directory database id for contacts")
	notionProjectDB := flag.String("notion_project_db", "", "Directory database id for projects")

	webhookSecret := flag.String("webhook_secret", "", "Shared secret for webhook signature verification")

	creationTriggerStages := flag.String("creation_trigger_stages", "closedwon",
		"Comma separated native stage codes that trigger project creation")
	defaultStatus := flag.String("default_status", "", "Status for projects created from an unmapped stage")
	disableProjectUpdates := flag.Bool("disable_project_updates", false,
		"When set, existing projects are never updated")

	flag.Parse()

	syncConf := C.DefaultSyncConfig()
	if *creationTriggerStages != "" {
		triggers := map[string]bool{}
		for _, stage := range strings.Split(*creationTriggerStages, ",") {
			if stage = strings.TrimSpace(stage); stage != "" {
				triggers[stage] = true
			}
		}
		syncConf.CreationTriggerStages = triggers
	}
	if *defaultStatus != "" {
		syncConf.DefaultStatus = *defaultStatus
	}
	syncConf.UpdatesEnabled = !*disableProjectUpdates

	config := &C.Configuration{
		AppName: "dealsync",
		Env:     *env,
		Port:    *port,
		Hubspot: C.HubspotConf{
			APIURL: *hubspotAPIURL,
			APIKey: *hubspotAPIKey,
		},
		Notion: C.NotionConf{
			APIURL:            *notionAPIURL,
			Token:             *notionToken,
			CompanyDatabaseID: *notionCompanyDB,
			ContactDatabaseID: *notionContactDB,
			ProjectDatabaseID: *notionProjectDB,
		},
		WebhookSecret: *webhookSecret,
		Sync:          syncConf,
	}

	if err := C.InitConf(config); err != nil {
		log.WithError(err).Fatal("Failed to initialize config.")
	}

	source := IntHubspot.NewClient(&config.Hubspot, config.Sync, nil)
	target := IntNotion.NewClient(&config.Notion, IntNotion.DefaultSchema(), nil)
	engine := syncer.New(source, target, config.Sync)

	r := gin.Default()
	H.InitRoutes(r, engine)

	log.WithField("port", config.Port).Info("Starting dealsync server.")
	if err := r.Run(":" + strconv.Itoa(config.Port)); err != nil {
		log.WithError(err).Fatal("Server exited.")
	}
}
