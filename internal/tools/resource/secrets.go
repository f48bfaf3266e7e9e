package resource

import (
	"strings"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"sigs.k8s.io/yaml"
)

// RedactedValue is the placeholder written over masked secret data.
const RedactedValue = "***REDACTED***"

// sensitiveAnnotations lists annotations whose values are masked alongside
// secret data.
var sensitiveAnnotations = map[string]bool{
	"kubernetes.io/service-account.uid":   true,
	"kubernetes.io/service-account.name":  true,
	"kubernetes.io/service-account-token": true,
}

// isSecret reports whether the object is a Secret.
func isSecret(obj map[string]interface{}) bool {
	kind, _ := obj["kind"].(string)
	return strings.EqualFold(kind, "Secret")
}

// maskSecret returns the object's map form with secret data replaced by
// redaction placeholders. Non-secret objects pass through untouched;
// secrets are deep-copied so the caller's object survives.
func maskSecret(obj *unstructured.Unstructured) map[string]interface{} {
	if obj == nil {
		return nil
	}
	if !isSecret(obj.Object) {
		return obj.Object
	}

	masked := obj.DeepCopy().Object
	maskSecretData(masked)
	return masked
}

// maskSecretYAML masks secret values in a rendered manifest. Non-secret
// manifests come back unchanged.
func maskSecretYAML(manifest string) (string, error) {
	var obj map[string]interface{}
	if err := yaml.Unmarshal([]byte(manifest), &obj); err != nil {
		return "", err
	}
	if !isSecret(obj) {
		return manifest, nil
	}

	maskSecretData(obj)
	out, err := yaml.Marshal(obj)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// maskSecretData overwrites the data and stringData values in place. The
// type field stays visible for context (e.g. kubernetes.io/tls).
func maskSecretData(secret map[string]interface{}) {
	if data, ok := secret["data"].(map[string]interface{}); ok {
		for key := range data {
			data[key] = RedactedValue
		}
	}
	if stringData, ok := secret["stringData"].(map[string]interface{}); ok {
		for key := range stringData {
			stringData[key] = RedactedValue
		}
	}
	maskSensitiveAnnotations(secret)
}

func maskSensitiveAnnotations(obj map[string]interface{}) {
	metadata, ok := obj["metadata"].(map[string]interface{})
	if !ok {
		return
	}
	annotations, ok := metadata["annotations"].(map[string]interface{})
	if !ok {
		return
	}
	for key := range annotations {
		if sensitiveAnnotations[key] {
			annotations[key] = RedactedValue
		}
	}
}
