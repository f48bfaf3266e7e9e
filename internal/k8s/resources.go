package k8s

import (
	"context"
	"fmt"
	"strings"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/client-go/discovery"
	"k8s.io/client-go/dynamic"
	"sigs.k8s.io/yaml"
)

// resolveResourceType maps a resource type name to a GroupVersionResource
// and whether it is namespaced. Builtin kinds resolve without a network
// round trip; anything else goes through API discovery.
func (c *kubernetesClient) resolveResourceType(resourceType string) (schema.GroupVersionResource, bool, error) {
	resourceType = strings.ToLower(resourceType)

	if gvr, exists := c.builtin[resourceType]; exists {
		return gvr, isResourceNamespaced(gvr), nil
	}

	disc, err := c.discoveryClient()
	if err != nil {
		return schema.GroupVersionResource{}, false, err
	}

	return resolveWithDiscovery(resourceType, disc)
}

// resolveWithDiscovery searches the API server's preferred resources for a
// name, kind, singular name or short name matching resourceType.
func resolveWithDiscovery(resourceType string, disc discovery.DiscoveryInterface) (schema.GroupVersionResource, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), DiscoveryTimeout)
	defer cancel()

	type discoveryResult struct {
		resourceLists []*metav1.APIResourceList
		err           error
	}

	resultChan := make(chan discoveryResult, 1)
	go func() {
		resourceLists, err := disc.ServerPreferredResources()
		resultChan <- discoveryResult{resourceLists: resourceLists, err: err}
	}()

	var resourceLists []*metav1.APIResourceList
	select {
	case result := <-resultChan:
		// Continue with partial results even on error
		resourceLists = result.resourceLists
	case <-ctx.Done():
		return schema.GroupVersionResource{}, false, fmt.Errorf("API discovery timed out after 30 seconds")
	}

	for _, resourceList := range resourceLists {
		if resourceList == nil {
			continue
		}

		gv, err := schema.ParseGroupVersion(resourceList.GroupVersion)
		if err != nil {
			continue
		}

		for _, resource := range resourceList.APIResources {
			matches := []string{
				strings.ToLower(resource.Name),
				strings.ToLower(resource.Kind),
				strings.ToLower(resource.SingularName),
			}
			for _, shortName := range resource.ShortNames {
				matches = append(matches, strings.ToLower(shortName))
			}

			for _, match := range matches {
				if match == resourceType {
					gvr := schema.GroupVersionResource{
						Group:    gv.Group,
						Version:  gv.Version,
						Resource: resource.Name,
					}
					return gvr, resource.Namespaced, nil
				}
			}
		}
	}

	return schema.GroupVersionResource{}, false, fmt.Errorf("unknown resource type %q", resourceType)
}

// resourceInterface scopes the dynamic client to a namespace for namespaced
// kinds, defaulting the namespace when the caller left it empty.
func resourceInterface(dyn dynamic.Interface, gvr schema.GroupVersionResource, namespaced bool, namespace string) dynamic.ResourceInterface {
	if namespaced {
		if namespace == "" {
			namespace = DefaultNamespace
		}
		return dyn.Resource(gvr).Namespace(namespace)
	}
	return dyn.Resource(gvr)
}

// GetResource retrieves a single resource by type and name.
func (c *kubernetesClient) GetResource(ctx context.Context, namespace, resourceType, name string) (*unstructured.Unstructured, error) {
	c.logOperation("get", namespace, resourceType, name)

	gvr, namespaced, err := c.resolveResourceType(resourceType)
	if err != nil {
		return nil, err
	}

	dyn, err := c.DynamicClient()
	if err != nil {
		return nil, err
	}

	obj, err := resourceInterface(dyn, gvr, namespaced, namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get %s %q: %w", resourceType, name, err)
	}

	return obj, nil
}

// ListResources lists resources of a type with optional selectors.
func (c *kubernetesClient) ListResources(ctx context.Context, namespace, resourceType string, opts ListOptions) (*unstructured.UnstructuredList, error) {
	c.logOperation("list", namespace, resourceType, "")

	gvr, namespaced, err := c.resolveResourceType(resourceType)
	if err != nil {
		return nil, err
	}

	dyn, err := c.DynamicClient()
	if err != nil {
		return nil, err
	}

	listOpts := metav1.ListOptions{
		LabelSelector: opts.LabelSelector,
		FieldSelector: opts.FieldSelector,
	}
	if opts.Limit > 0 {
		listOpts.Limit = opts.Limit
	}
	if opts.Continue != "" {
		listOpts.Continue = opts.Continue
	}

	var ri dynamic.ResourceInterface
	if namespaced && !opts.AllNamespaces {
		ri = resourceInterface(dyn, gvr, true, namespace)
	} else {
		ri = dyn.Resource(gvr)
	}

	list, err := ri.List(ctx, listOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", resourceType, err)
	}

	return list, nil
}

// DeleteResource removes a resource by type and name.
func (c *kubernetesClient) DeleteResource(ctx context.Context, namespace, resourceType, name string) error {
	if err := c.checkMutating("delete"); err != nil {
		return err
	}
	c.logOperation("delete", namespace, resourceType, name)

	gvr, namespaced, err := c.resolveResourceType(resourceType)
	if err != nil {
		return err
	}

	dyn, err := c.DynamicClient()
	if err != nil {
		return err
	}

	if err := resourceInterface(dyn, gvr, namespaced, namespace).Delete(ctx, name, metav1.DeleteOptions{}); err != nil {
		return fmt.Errorf("failed to delete %s %q: %w", resourceType, name, err)
	}

	return nil
}

// GetResourceYAML renders a resource as YAML with server-side field
// bookkeeping stripped out.
func (c *kubernetesClient) GetResourceYAML(ctx context.Context, namespace, resourceType, name string) (string, error) {
	obj, err := c.GetResource(ctx, namespace, resourceType, name)
	if err != nil {
		return "", err
	}

	obj.SetManagedFields(nil)

	data, err := yaml.Marshal(obj.Object)
	if err != nil {
		return "", fmt.Errorf("failed to marshal %s %q to YAML: %w", resourceType, name, err)
	}

	return string(data), nil
}

// UpdateResourceYAML replaces a resource from a YAML manifest. The live
// object's resourceVersion is carried over when the manifest omits it.
func (c *kubernetesClient) UpdateResourceYAML(ctx context.Context, namespace, resourceType, name, manifest string) error {
	if err := c.checkMutating("update"); err != nil {
		return err
	}
	c.logOperation("update", namespace, resourceType, name)

	gvr, namespaced, err := c.resolveResourceType(resourceType)
	if err != nil {
		return err
	}

	var body map[string]interface{}
	if err := yaml.Unmarshal([]byte(manifest), &body); err != nil {
		return fmt.Errorf("failed to parse manifest: %w", err)
	}
	obj := &unstructured.Unstructured{Object: body}

	switch objName := obj.GetName(); objName {
	case "":
		obj.SetName(name)
	case name:
	default:
		return fmt.Errorf("manifest names %q but %q was requested, rename is not supported", objName, name)
	}

	dyn, err := c.DynamicClient()
	if err != nil {
		return err
	}
	ri := resourceInterface(dyn, gvr, namespaced, namespace)

	if obj.GetResourceVersion() == "" {
		live, err := ri.Get(ctx, name, metav1.GetOptions{})
		if err != nil {
			return fmt.Errorf("failed to get %s %q: %w", resourceType, name, err)
		}
		obj.SetResourceVersion(live.GetResourceVersion())
	}

	if _, err := ri.Update(ctx, obj, metav1.UpdateOptions{}); err != nil {
		return fmt.Errorf("failed to update %s %q: %w", resourceType, name, err)
	}

	return nil
}
