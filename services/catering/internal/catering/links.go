package catering

import (
	"strings"

	"github.com/appetiteclub/apt"
	"github.com/gertd/go-pluralize"
)

// resource is implemented by every aggregate served over HTTP.
type resource interface {
	GetID() string
	ResourceType() string
}

var plurals = pluralize.NewClient()

// resourceLinks builds the HATEOAS links of r. It is the string-id
// counterpart of apt.RESTfulLinksFor.
func resourceLinks(r resource) []apt.Link {
	collection := "/" + collectionPath(r.ResourceType())
	return []apt.Link{
		{Rel: "self", Href: collection + "/" + r.GetID()},
		{Rel: "collection", Href: collection},
	}
}

// collectionPath pluralizes the last segment: catering/menu -> catering/menus.
func collectionPath(resourceType string) string {
	i := strings.LastIndex(resourceType, "/")
	return resourceType[:i+1] + plurals.Plural(resourceType[i+1:])
}
