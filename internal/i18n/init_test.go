package i18n

import (
	"testing"

	"github.com/goccy/go-json"
	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func testService() *I18nService {
	bundle := goi18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)
	bundle.MustLoadMessageFile("en.json")
	bundle.MustLoadMessageFile("de.json")

	return &I18nService{bundle: bundle}
}

func TestT_ConflictNamesCurrentHolder(t *testing.T) {
	svc := testService()

	msg := svc.T("en", "conflict.task_already_assigned", map[string]any{"Name": "Uwe Bauer"})

	assert.Equal(t, "Task is already assigned to Uwe Bauer.", msg)
}

func TestT_NoWorkersSelected(t *testing.T) {
	svc := testService()

	assert.Equal(t, "No workers were selected.", svc.T("en", "validation.no_workers_selected", nil))
}

func TestT_UnknownKeyFallsBackToKey(t *testing.T) {
	svc := testService()

	assert.Equal(t, "does.not.exist", svc.T("en", "does.not.exist", nil))
}
