// Package autoswagger derives a Swagger 2.0 document from the HTTP routes of a
// serverless-style deployment descriptor and a set of type-definition sources.
//
// A generation run has three ordered phases, driven by [Generator]:
//
//	resolver := autoswagger.NewSchemaResolver([]string{"./types/api.yml"})
//	doc, err := autoswagger.New(resolver).Generate(ctx, svc)
//
// Type definitions are converted concurrently by [SchemaResolver] and merged
// last-wins into the document definitions. Routes are turned into operations
// by [PathSynthesizer], which uses [ResolveParameters] and [FormatResponses].
// The finished document is only reachable through [Builder.Build].
//
// [SwaggerHandler] and [Mount] serve the generated document with Swagger UI.
package autoswagger
