package n8n

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jordanlanch/brokerhub/pkg/logger"
)

func newTestClient(t *testing.T, api, webhooks http.HandlerFunc) *Client {
	if api == nil {
		api = func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{}`))
		}
	}
	apiSrv := httptest.NewServer(api)
	t.Cleanup(apiSrv.Close)

	if webhooks == nil {
		webhooks = func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{}`))
		}
	}
	hookSrv := httptest.NewServer(webhooks)
	t.Cleanup(hookSrv.Close)

	return New(apiSrv.URL, "test-key", hookSrv.URL+"/webhook", logger.Default())
}

func TestClient_ListWorkflows(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/workflows", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-N8N-API-KEY"))
		w.Write([]byte(`{"data":[{"id":"wf-1","name":"Lead Intake","active":true}]}`))
	}, nil)

	workflows, err := client.ListWorkflows(context.Background())
	require.NoError(t, err)
	require.Len(t, workflows, 1)
	assert.Equal(t, "Lead Intake", workflows[0].Name)
	assert.True(t, workflows[0].Active)
}

func TestClient_ActivateWorkflow(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/workflows/wf-1/activate", r.URL.Path)
		w.Write([]byte(`{"id":"wf-1","active":true}`))
	}, nil)

	wf, err := client.ActivateWorkflow(context.Background(), "wf-1")
	require.NoError(t, err)
	assert.True(t, wf.Active)
}

func TestClient_ListExecutions(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/executions", r.URL.Path)
		assert.Equal(t, "wf-1", r.URL.Query().Get("workflowId"))
		assert.Equal(t, "error", r.URL.Query().Get("status"))
		w.Write([]byte(`{"data":[{"id":"ex-1","workflowId":"wf-1","status":"error"}]}`))
	}, nil)

	executions, err := client.ListExecutions(context.Background(), ExecutionQuery{
		WorkflowID: "wf-1",
		Status:     "error",
	})
	require.NoError(t, err)
	require.Len(t, executions, 1)
	assert.Equal(t, "error", executions[0].Status)
}

func TestClient_GenerateScript(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("script generation must hit the webhook URL, not the API")
	}, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/webhook/generate-script", r.URL.Path)

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "discovery", payload["scriptType"])

		lead, ok := payload["leadInfo"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "Roberto Silva", lead["name"])

		w.Write([]byte(`{"script":"Hola [NOMBRE_CLIENTE]...","variables":["NOMBRE_CLIENTE"]}`))
	})

	script, err := client.GenerateScript(context.Background(), LeadInfo{
		Name:      "Roberto Silva",
		Email:     "roberto.silva@email.com",
		Budget:    3200000,
		Interests: []string{"Penthouse"},
	}, "discovery", "")
	require.NoError(t, err)
	assert.Contains(t, script.Script, "Hola")
	assert.Equal(t, []string{"NOMBRE_CLIENTE"}, script.Variables)
}

func TestClient_AnalyzeCall(t *testing.T) {
	client := newTestClient(t, nil, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/webhook/analyze-call", r.URL.Path)
		w.Write([]byte(`{"sentiment":"positive","keyTopics":["presupuesto"],"nextAction":"Agendar presentación","score":85}`))
	})

	analysis, err := client.AnalyzeCall(context.Background(), "call-1", "transcript...", LeadInfo{Name: "Carlos"})
	require.NoError(t, err)
	assert.Equal(t, "positive", analysis.Sentiment)
	assert.Equal(t, 85, analysis.Score)
}

func TestClient_SendWhatsApp(t *testing.T) {
	client := newTestClient(t, nil, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/webhook/send-whatsapp", r.URL.Path)

		var payload map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "+529981234567", payload["phoneNumber"])

		w.Write([]byte(`{"sent":true}`))
	})

	err := client.SendWhatsApp(context.Background(), "+529981234567", "Hola Carlos")
	require.NoError(t, err)
}
