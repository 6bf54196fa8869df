package gallery

// feed is an OData Atom feed as returned by the gallery Search() endpoint.
// Tags carry no namespace so that the Atom, metadata and dataservices prefixes all match.
type feed struct {
	Entries []entry `xml:"entry"`
}

// entry is a single package version of the feed, also returned alone by its detail URL.
type entry struct {
	ID         string     `xml:"id"`
	Title      string     `xml:"title"`
	Properties properties `xml:"properties"`
}

type properties struct {
	ID           string `xml:"Id"`
	Version      string `xml:"Version"`
	Dependencies string `xml:"Dependencies"`
}
