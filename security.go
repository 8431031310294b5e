package autoswagger

// SecurityResolver supplies the security requirements of an operation.
type SecurityResolver interface {
	Security(route RouteDeclaration) []map[string][]string
}

// NoSecurity is the default [SecurityResolver]. It always returns nil, so
// generated operations carry no security field.
type NoSecurity struct{}

// Security implements [SecurityResolver].
func (NoSecurity) Security(RouteDeclaration) []map[string][]string {
	return nil
}
