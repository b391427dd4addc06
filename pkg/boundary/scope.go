package boundary

// CreateOrganizationScope builds the filter map that restricts a query to one
// organization. Repositories translate the map into SQL conditions.
func CreateOrganizationScope(orgID string) map[string]any {
	return map[string]any{"organizationId": orgID}
}

// CreateOrganizationScopeWith merges caller-supplied conditions with the
// organization filter. The organization key is assigned last, so a colliding
// key in extra can never widen the scope.
func CreateOrganizationScopeWith(orgID string, extra map[string]any) map[string]any {
	scope := make(map[string]any, len(extra)+1)
	for k, v := range extra {
		scope[k] = v
	}
	scope["organizationId"] = orgID
	return scope
}

// EntityQuery is the filter shape for a single-entity lookup, update or
// delete.
type EntityQuery struct {
	Where map[string]any
}

func entityQuery(entityID, orgID string) EntityQuery {
	return EntityQuery{Where: map[string]any{
		"id":             entityID,
		"organizationId": orgID,
	}}
}

// CreateEntityQuery scopes a single-entity lookup to an organization.
func CreateEntityQuery(entityID, orgID string) EntityQuery {
	return entityQuery(entityID, orgID)
}

// CreateEntityUpdateQuery scopes a single-entity update to an organization.
func CreateEntityUpdateQuery(entityID, orgID string) EntityQuery {
	return entityQuery(entityID, orgID)
}

// CreateEntityDeleteQuery scopes a single-entity delete to an organization.
func CreateEntityDeleteQuery(entityID, orgID string) EntityQuery {
	return entityQuery(entityID, orgID)
}
