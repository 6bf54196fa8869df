package automation

// moduleList is a page of the account's module collection.
type moduleList struct {
	Value    []module `json:"value"`
	NextLink string   `json:"nextLink"`
}

type module struct {
	ID         string           `json:"id"`
	Name       string           `json:"name"`
	Properties moduleProperties `json:"properties"`
}

type moduleProperties struct {
	Version           string       `json:"version,omitempty"`
	ProvisioningState string       `json:"provisioningState,omitempty"`
	IsGlobal          bool         `json:"isGlobal,omitempty"`
	ContentLink       *contentLink `json:"contentLink,omitempty"`
}

type contentLink struct {
	URI string `json:"uri"`
}

// moduleUpdate is the body of a module create-or-update request.
type moduleUpdate struct {
	Properties moduleProperties `json:"properties"`
}

// apiError is the error envelope returned by the resource manager.
type apiError struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
