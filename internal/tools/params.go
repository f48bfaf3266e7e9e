package tools

import (
	"github.com/kubedeck/kubedeck/internal/server"
)

// NamespaceOrDefault resolves the namespace argument, falling back to the
// server's configured default namespace. Cluster-scoped resources ignore
// the namespace downstream, so callers never need to special-case them.
func NamespaceOrDefault(sc *server.ServerContext, args map[string]interface{}) string {
	namespace, _ := args["namespace"].(string)
	if namespace == "" {
		return sc.Config().DefaultNamespace
	}
	return namespace
}
