package serverless_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Gobd/autoswagger/serverless"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const descriptorYAML = `
service: orders
provider:
  name: aws
  stage: dev
custom:
  autoswagger:
    typefiles:
      - ./types/orders.yml
functions:
  getOrder:
    handler: src/orders.get
    events:
      - http:
          path: orders/{id}
          method: get
          description: Fetch one order
          tags: [orders]
          request:
            parameters:
              paths:
                id: true
          responses:
            200:
              description: The order
              bodyType: Order
            404: Not found
  createOrder:
    handler: src/orders.create
    events:
      - httpApi:
          path: /orders
          method: post
          bodyType: CreateOrder
  legacyList:
    handler: src/orders.list
    events:
      - httpApi: 'GET /orders'
  nightly:
    handler: src/jobs.nightly
    events:
      - schedule: rate(1 day)
`

func parse(t *testing.T) *serverless.Service {
	t.Helper()
	svc, err := serverless.Parse([]byte(descriptorYAML))
	require.NoError(t, err)
	return svc
}

func TestParse(t *testing.T) {
	svc := parse(t)

	assert.Equal(t, "orders", svc.Name)
	assert.Equal(t, "dev", svc.Provider.Stage)
	assert.Equal(t, []string{"createOrder", "getOrder", "legacyList", "nightly"}, svc.FunctionNames())
}

func TestParseServiceObject(t *testing.T) {
	svc, err := serverless.Parse([]byte("service:\n  name: billing\n"))
	require.NoError(t, err)
	assert.Equal(t, "billing", svc.Name)
	assert.Empty(t, svc.Functions)
}

func TestTriggerShapes(t *testing.T) {
	svc := parse(t)

	tests := []struct {
		function string
		kind     serverless.TriggerKind
	}{
		{"getOrder", serverless.TriggerHTTP},
		{"createOrder", serverless.TriggerHTTPAPI},
		{"legacyList", serverless.TriggerShorthand},
	}
	for _, tt := range tests {
		t.Run(tt.function, func(t *testing.T) {
			triggers := svc.Functions[tt.function].Triggers()
			require.Len(t, triggers, 1)
			assert.Equal(t, tt.kind, triggers[0].Kind)
		})
	}

	assert.Empty(t, svc.Functions["nightly"].Triggers())

	short := svc.Functions["legacyList"].Triggers()[0]
	assert.Equal(t, "GET /orders", short.Shorthand)
	_, ok := short.Event()
	assert.False(t, ok)
}

func TestHTTPEventFields(t *testing.T) {
	svc := parse(t)

	ev, ok := svc.Functions["getOrder"].Triggers()[0].Event()
	require.True(t, ok)

	assert.Equal(t, "orders/{id}", ev.Path)
	assert.Equal(t, "get", ev.Method)
	assert.Equal(t, "Fetch one order", ev.Description)
	assert.Equal(t, []string{"orders"}, ev.Tags)

	params, ok := ev.PathParameters()
	require.True(t, ok)
	assert.Equal(t, map[string]serverless.ParamFlag{"id": true}, params)

	require.Contains(t, ev.Responses, "200")
	assert.Equal(t, serverless.ResponseDeclaration{Description: "The order", BodyType: "Order"}, ev.Responses["200"])
	assert.Equal(t, serverless.ResponseDeclaration{Shorthand: true, Description: "Not found"}, ev.Responses["404"])

	assert.NoError(t, ev.Validate())
}

func TestPathParametersAlias(t *testing.T) {
	svc, err := serverless.Parse([]byte(`
functions:
  f:
    events:
      - http:
          path: a/{x}
          method: get
          request:
            parameters:
              path:
                x:
                  required: false
`))
	require.NoError(t, err)

	ev, ok := svc.Functions["f"].Triggers()[0].Event()
	require.True(t, ok)
	params, ok := ev.PathParameters()
	require.True(t, ok)
	assert.Equal(t, serverless.ParamFlag(false), params["x"])
}

func TestHTTPEventValidate(t *testing.T) {
	assert.Error(t, (&serverless.HTTPEvent{Method: "get"}).Validate())
	assert.Error(t, (&serverless.HTTPEvent{Path: "x"}).Validate())
	assert.NoError(t, (&serverless.HTTPEvent{Path: "x", Method: "get"}).Validate())
}

func TestOptions(t *testing.T) {
	svc := parse(t)

	var opts struct {
		Typefiles []string `json:"typefiles"`
	}
	found, err := svc.Options("autoswagger", &opts)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"./types/orders.yml"}, opts.Typefiles)

	found, err = svc.Options("missing", &opts)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestInjectOverwrites(t *testing.T) {
	svc := parse(t)

	err := svc.Inject(map[string]map[string]any{
		"getOrder": serverless.DocsFunction("swagger/swagger.handler", "/docs/"),
	})
	require.NoError(t, err)

	fn := svc.Functions["getOrder"]
	assert.Equal(t, "swagger/swagger.handler", fn.Handler)

	triggers := fn.Triggers()
	require.Len(t, triggers, 2)
	first, ok := triggers[0].Event()
	require.True(t, ok)
	assert.Equal(t, "docs", first.Path)
	second, ok := triggers[1].Event()
	require.True(t, ok)
	assert.Equal(t, "docs.json", second.Path)
	assert.Equal(t, serverless.TriggerHTTP, triggers[1].Kind)
}

func TestWriteKeepsUnrelatedSections(t *testing.T) {
	svc := parse(t)
	require.NoError(t, svc.Inject(map[string]map[string]any{
		"swagger": serverless.DocsFunction("swagger/swagger.handler", "swagger"),
	}))

	path := filepath.Join(t.TempDir(), "out", "serverless.yml")
	require.NoError(t, svc.Write(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	reloaded, err := serverless.Parse(data)
	require.NoError(t, err)
	assert.Equal(t, "orders", reloaded.Name)
	assert.Equal(t, "dev", reloaded.Provider.Stage)
	assert.Contains(t, reloaded.Functions, "swagger")
	assert.Contains(t, reloaded.Functions, "getOrder")
	assert.Equal(t, "swagger/swagger.handler", reloaded.Functions["swagger"].Handler)
}

func TestMalformedTriggerIsKept(t *testing.T) {
	svc, err := serverless.Parse([]byte(`
functions:
  broken:
    handler: h
    events:
      - http:
          path: [not, a, string]
          method: get
`))
	require.NoError(t, err)

	triggers := svc.Functions["broken"].Triggers()
	require.Len(t, triggers, 1)
	assert.Equal(t, serverless.TriggerHTTP, triggers[0].Kind)
	assert.Error(t, triggers[0].Err)

	_, ok := triggers[0].Event()
	assert.False(t, ok)
}

func TestHTTPEventNormalize(t *testing.T) {
	svc, err := serverless.Parse([]byte(`
functions:
  padded:
    handler: h
    events:
      - http:
          path: " items/{ id } "
          method: " GET "
          bodyType: " Item "
          tags: [" items "]
          responses:
            200:
              bodyType: " Item "
          request:
            parameters:
              paths:
                " id ": false
`))
	require.NoError(t, err)

	ev, ok := svc.Functions["padded"].Triggers()[0].Event()
	require.True(t, ok)
	assert.Equal(t, "items/{ id }", ev.Path)
	assert.Equal(t, "GET", ev.Method)
	assert.Equal(t, "Item", ev.BodyType)
	assert.Equal(t, []string{"items"}, ev.Tags)
	assert.Equal(t, "Item", ev.Responses["200"].BodyType)

	params, ok := ev.PathParameters()
	require.True(t, ok)
	assert.Equal(t, map[string]serverless.ParamFlag{"id": false}, params)
}

func TestInjectUnparsedService(t *testing.T) {
	svc := &serverless.Service{Name: "bare"}

	require.NoError(t, svc.Inject(map[string]map[string]any{
		"swagger": serverless.DocsFunction("swagger/swagger.handler", "swagger"),
	}))

	require.Contains(t, svc.Functions, "swagger")
	assert.Len(t, svc.Functions["swagger"].Triggers(), 2)

	data, err := svc.Marshal()
	require.NoError(t, err)
	assert.Contains(t, string(data), "swagger/swagger.handler")
}
