package validation

// ValidateTaskID validates a single catalog task id against the reserved
// id shapes the chain builder generates.
func ValidateTaskID(id string, field string) ErrorList {
	allErrs := ErrorList{}
	if err := IsValidTaskID(id); err != nil {
		allErrs = append(allErrs, Invalid(field, id, err.Error()))
	}
	return allErrs
}

// ValidateNodeID validates a single inventory node id.
func ValidateNodeID(id string, field string) ErrorList {
	allErrs := ErrorList{}
	if err := IsValidNodeID(id); err != nil {
		allErrs = append(allErrs, Invalid(field, id, err.Error()))
	}
	return allErrs
}

// ValidateUniqueIDs validates that a list of ids (task ids or node ids)
// contains no duplicates.
func ValidateUniqueIDs(ids []string, field string) ErrorList {
	allErrs := ErrorList{}
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			allErrs = append(allErrs, Duplicate(field, id))
			continue
		}
		seen[id] = struct{}{}
	}
	return allErrs
}

// ValidateCatalog runs every catalog-level check against a list of task ids
// and their group-member references, returning every violation found rather
// than stopping at the first.
func ValidateCatalog(taskIDs []string, groupMembers map[string][]string) ErrorList {
	allErrs := ErrorList{}

	index := make(map[string]struct{}, len(taskIDs))
	for _, id := range taskIDs {
		allErrs = append(allErrs, ValidateTaskID(id, "id")...)
		index[id] = struct{}{}
	}
	allErrs = append(allErrs, ValidateUniqueIDs(taskIDs, "id")...)

	for groupID, members := range groupMembers {
		for _, memberID := range members {
			if _, ok := index[memberID]; !ok {
				allErrs = append(allErrs, NotFound(groupID+".tasks", memberID))
			}
		}
	}

	return allErrs
}
