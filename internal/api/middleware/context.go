package middleware

import (
	"context"
	"net/http"
)

type contextKey string

const packageNameKey contextKey = "package_name"

func SetPackageName(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, packageNameKey, name)
}

func GetPackageName(r *http.Request) (string, bool) {
	name, ok := r.Context().Value(packageNameKey).(string)
	return name, ok
}
