package resource

// handle(state, command) -> (event, error) is pure: it reads only state and
// the command's own fields, never the clock, never the log, and never
// allocates an identifier. The service layer is responsible for wrapping
// the returned payload in an envelope with a freshly minted event id.

func HandleRegister(s State, c Register) (ResourceRegistered, error) {
	if s.Initialized {
		return ResourceRegistered{}, alreadyInitialized()
	}
	hostname, err := ParseHostname(c.Hostname)
	if err != nil {
		return ResourceRegistered{}, err
	}
	resourceType, err := ParseResourceType(c.ResourceType)
	if err != nil {
		return ResourceRegistered{}, err
	}
	return ResourceRegistered{Hostname: hostname, ResourceType: resourceType}, nil
}

func HandleAssignOrganization(s State, c AssignOrganization) (OrganizationAssigned, error) {
	if !s.Initialized {
		return OrganizationAssigned{}, notInitialized()
	}
	return OrganizationAssigned{OrganizationID: c.OrganizationID}, nil
}

func HandleAssignLocation(s State, c AssignLocation) (LocationAssigned, error) {
	if !s.Initialized {
		return LocationAssigned{}, notInitialized()
	}
	return LocationAssigned{LocationID: c.LocationID}, nil
}

func HandleAssignOwner(s State, c AssignOwner) (OwnerAssigned, error) {
	if !s.Initialized {
		return OwnerAssigned{}, notInitialized()
	}
	return OwnerAssigned{OwnerID: c.OwnerID}, nil
}

func HandleAddPolicy(s State, c AddPolicy) (PolicyAdded, error) {
	if !s.Initialized {
		return PolicyAdded{}, notInitialized()
	}
	if s.HasPolicy(c.PolicyID) {
		return PolicyAdded{}, policyAlreadyAdded(c.PolicyID)
	}
	return PolicyAdded{PolicyID: c.PolicyID}, nil
}

func HandleRemovePolicy(s State, c RemovePolicy) (PolicyRemoved, error) {
	if !s.Initialized {
		return PolicyRemoved{}, notInitialized()
	}
	if !s.HasPolicy(c.PolicyID) {
		return PolicyRemoved{}, policyNotFound(c.PolicyID)
	}
	return PolicyRemoved{PolicyID: c.PolicyID}, nil
}

func HandleAssignAccountConcept(s State, c AssignAccountConcept) (AccountConceptAssigned, error) {
	if !s.Initialized {
		return AccountConceptAssigned{}, notInitialized()
	}
	return AccountConceptAssigned{AccountConceptID: c.AccountConceptID}, nil
}

func HandleClearAccountConcept(s State, c ClearAccountConcept) (AccountConceptCleared, error) {
	if !s.Initialized {
		return AccountConceptCleared{}, notInitialized()
	}
	return AccountConceptCleared{}, nil
}

func HandleSetHardwareDetails(s State, c SetHardwareDetails) (HardwareDetailsSet, error) {
	if !s.Initialized {
		return HardwareDetailsSet{}, notInitialized()
	}
	return HardwareDetailsSet{Manufacturer: c.Manufacturer, Model: c.Model, SerialNumber: c.SerialNumber}, nil
}

func HandleAssignAssetTag(s State, c AssignAssetTag) (AssetTagAssigned, error) {
	if !s.Initialized {
		return AssetTagAssigned{}, notInitialized()
	}
	return AssetTagAssigned{AssetTag: c.AssetTag}, nil
}

func HandleUpdateMetadata(s State, c UpdateMetadata) (MetadataUpdated, error) {
	if !s.Initialized {
		return MetadataUpdated{}, notInitialized()
	}
	key, err := ParseMetadataKey(c.Key)
	if err != nil {
		return MetadataUpdated{}, err
	}
	return MetadataUpdated{Key: key, Value: c.Value}, nil
}

// HandleChangeStatus enforces the lifecycle state machine and, for a
// transition into Active, the precondition that organization and location
// are already assigned.
func HandleChangeStatus(s State, c ChangeStatus) (StatusChanged, error) {
	if !s.Initialized {
		return StatusChanged{}, notInitialized()
	}
	if !s.Status.CanTransitionTo(c.ToStatus) {
		return StatusChanged{}, invalidTransition(s.Status, c.ToStatus)
	}
	if c.ToStatus == StatusActive && s.Status != StatusActive {
		if s.OrganizationID == "" || s.LocationID == "" {
			return StatusChanged{}, preconditionUnmet("organization and location must be assigned before activation")
		}
	}
	return StatusChanged{FromStatus: s.Status, ToStatus: c.ToStatus}, nil
}
