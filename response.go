package autoswagger

import (
	"github.com/Gobd/autoswagger/openapi"
	"github.com/Gobd/autoswagger/serverless"
)

// DefaultStatus is the status documented for routes without declared responses.
const DefaultStatus = "200"

// FormatResponses turns a route's response declarations into Swagger
// responses. A nil map yields a single "200 response" entry.
func FormatResponses(decls map[string]serverless.ResponseDeclaration) map[string]*openapi.Response {
	if decls == nil {
		return map[string]*openapi.Response{
			DefaultStatus: {Description: defaultDescription(DefaultStatus)},
		}
	}

	out := make(map[string]*openapi.Response, len(decls))
	for code, d := range decls {
		if d.Shorthand {
			out[code] = &openapi.Response{Description: d.Description}
			continue
		}

		resp := &openapi.Response{Description: d.Description}
		if resp.Description == "" {
			resp.Description = defaultDescription(code)
		}
		if d.BodyType != "" {
			resp.Schema = openapi.Ref(d.BodyType)
		}
		out[code] = resp
	}
	return out
}

func defaultDescription(code string) string {
	return code + " response"
}
