// Package openapi models the Swagger 2.0 document produced by autoswagger and
// provides the helpers used to assemble, write, and convert it.
//
// Use [DocBase] to create a base document, register operations with
// [AddPath], and hand the result to [Write]:
//
//	doc := openapi.DocBase("orders-service", "1")
//	openapi.AddPath(doc, "/orders/{id}", "get", &openapi.Operation{
//	    OperationID: "getOrder",
//	    Parameters:  []*openapi.Parameter{openapi.PathParam("id", true)},
//	    Responses:   map[string]*openapi.Response{"200": {Description: "200 response"}},
//	})
//	err := openapi.Write("swagger/swagger.js", openapi.FormatJS, doc)
package openapi
