package esi2ddl

import "context"

// CompileFile is a convenience function to compile a document file with the
// default schema and roles.
func CompileFile(ctx context.Context, path string) (*Mapping, error) {
	client := NewClient(DatabaseConfig{})
	return client.Compile(ctx, CompileOptions{File: path})
}

// GenerateFile is a convenience function to render the provisioning script of
// a document file with the default schema and roles.
func GenerateFile(ctx context.Context, path string) (string, error) {
	client := NewClient(DatabaseConfig{})
	return client.Generate(ctx, CompileOptions{File: path})
}

// GenerateURL is a convenience function to fetch a document and render its
// provisioning script.
func GenerateURL(ctx context.Context, url string) (string, error) {
	client := NewClient(DatabaseConfig{})
	return client.Generate(ctx, CompileOptions{URL: url})
}

// ApplyFile is a convenience function to compile a document file and apply it
// to a database.
func ApplyFile(ctx context.Context, dbConfig DatabaseConfig, path string) error {
	client := NewClient(dbConfig)
	return client.Apply(ctx, ApplyOptions{CompileOptions: CompileOptions{File: path}})
}
