package cmd

type Context struct {
	Debug bool
}

var CLI struct {
	Debug bool `help:"Enable debug mode"`

	Update  UpdateCmd  `cmd:"" default:"1"                                      help:"Discover breweries and enrich the record store"`
	Geocode GeocodeCmd `cmd:"" help:"Geocode records that are missing coordinates"`
	Regions RegionsCmd `cmd:"" help:"Normalize and reclassify brewery regions"`
	Export  ExportCmd  `cmd:"" help:"Export the record store to the database"`
}
