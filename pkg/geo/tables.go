package geo

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
)

// Region is one of the five canonical taxonomy tokens.
type Region string

const (
	Northeast Region = "northeast"
	Northwest Region = "northwest"
	Central   Region = "central"
	Southwest Region = "southwest"
	Southeast Region = "southeast"
)

// Canonical reports whether region is a member of the fixed taxonomy.
func (r Region) Canonical() bool {
	switch r {
	case Northeast, Northwest, Central, Southwest, Southeast:
		return true
	}

	return false
}

var ErrInvalidTables = errors.New("invalid geo tables")

// Tables holds the static lookup data used for region classification
// and label normalization. Instances are immutable after construction
// and passed explicitly to the Classifier and Normalizer.
type Tables struct {
	countyToRegion map[string]Region
	cityToCounty   map[string]string
	overrides      map[string]Region
	aliases        map[string]Region
}

// NewTables validates and assembles the lookup tables. Validation is a
// data-integrity lint: a county in two regions, a city pointing at an
// unlisted county, or a non-canonical mapping target all fail loading.
func NewTables(countiesByRegion map[Region][]string, cityToCounty map[string]string, overrides, aliases map[string]Region) (*Tables, error) {
	var errs error

	countyToRegion := make(map[string]Region)

	for region, counties := range countiesByRegion {
		if !region.Canonical() {
			multierr.AppendInto(&errs, fmt.Errorf("%w: region %q is not canonical", ErrInvalidTables, region))
		}

		for _, county := range counties {
			if existing, found := countyToRegion[county]; found {
				multierr.AppendInto(&errs, fmt.Errorf("%w: county %q in both %q and %q", ErrInvalidTables, county, existing, region))

				continue
			}

			countyToRegion[county] = region
		}
	}

	for city, county := range cityToCounty {
		if _, found := countyToRegion[county]; !found {
			multierr.AppendInto(&errs, fmt.Errorf("%w: city %q references unlisted county %q", ErrInvalidTables, city, county))
		}
	}

	for city, region := range overrides {
		if !region.Canonical() {
			multierr.AppendInto(&errs, fmt.Errorf("%w: override for %q targets non-canonical region %q", ErrInvalidTables, city, region))
		}
	}

	for alias, region := range aliases {
		if !region.Canonical() {
			multierr.AppendInto(&errs, fmt.Errorf("%w: alias %q targets non-canonical region %q", ErrInvalidTables, alias, region))
		}
	}

	if errs != nil {
		return nil, errs
	}

	return &Tables{
		countyToRegion: countyToRegion,
		cityToCounty:   cityToCounty,
		overrides:      overrides,
		aliases:        aliases,
	}, nil
}

// DefaultTables returns the Ohio lookup tables used in production.
func DefaultTables() (*Tables, error) {
	return NewTables(ohioCountiesByRegion, ohioCityToCounty, ohioRegionOverrides, ohioRegionAliases)
}

// Ohio counties grouped by geographic region, following ODNR
// conventions.
var ohioCountiesByRegion = map[Region][]string{
	Northeast: {
		"Ashland", "Ashtabula", "Carroll", "Columbiana", "Cuyahoga",
		"Geauga", "Holmes", "Lake", "Lorain", "Mahoning", "Medina",
		"Portage", "Stark", "Summit", "Trumbull", "Tuscarawas", "Wayne",
	},
	Northwest: {
		"Allen", "Auglaize", "Crawford", "Defiance", "Erie", "Fulton",
		"Hancock", "Hardin", "Henry", "Huron", "Lucas", "Mercer",
		"Ottawa", "Paulding", "Putnam", "Richland", "Sandusky", "Seneca",
		"Van Wert", "Williams", "Wood", "Wyandot",
	},
	Central: {
		"Delaware", "Fairfield", "Franklin", "Knox", "Licking",
		"Madison", "Marion", "Morrow", "Pickaway", "Union",
	},
	Southwest: {
		"Adams", "Brown", "Butler", "Champaign", "Clark", "Clermont",
		"Clinton", "Darke", "Fayette", "Greene", "Hamilton", "Highland",
		"Logan", "Miami", "Montgomery", "Preble", "Shelby", "Warren",
	},
	Southeast: {
		"Athens", "Belmont", "Coshocton", "Gallia", "Guernsey", "Harrison",
		"Hocking", "Jackson", "Jefferson", "Lawrence", "Meigs", "Monroe",
		"Morgan", "Muskingum", "Noble", "Perry", "Pike", "Ross", "Scioto",
		"Vinton", "Washington",
	},
}

var ohioCityToCounty = map[string]string{
	// Northeast
	"Akron":              "Summit",
	"Alliance":           "Stark",
	"Amherst":            "Lorain",
	"Ashland":            "Ashland",
	"Auburn Twp.":        "Geauga",
	"Austintown":         "Mahoning",
	"Avon":               "Lorain",
	"Avon Lake":          "Lorain",
	"Barberton":          "Summit",
	"Berea":              "Cuyahoga",
	"Bolivar":            "Tuscarawas",
	"Broadview Heights":  "Cuyahoga",
	"Canton":             "Stark",
	"Carroll":            "Fairfield",
	"Chardon":            "Geauga",
	"Chagrin Falls":      "Cuyahoga",
	"Cleveland":          "Cuyahoga",
	"Cleveland Heights":  "Cuyahoga",
	"Columbiana":         "Columbiana",
	"Columbia Station":   "Lorain",
	"Cuyahoga Falls":     "Summit",
	"Dennison":           "Tuscarawas",
	"Dover":              "Tuscarawas",
	"Euclid":             "Cuyahoga",
	"Geneva":             "Ashtabula",
	"Hartville":          "Stark",
	"Hinckley":           "Medina",
	"Hudson":             "Summit",
	"Kent":               "Portage",
	"Lake Milton":        "Mahoning",
	"Lakewood":           "Cuyahoga",
	"Madison":            "Lake",
	"Mantua":             "Portage",
	"Massillon":          "Stark",
	"Medina":             "Medina",
	"Mentor":             "Lake",
	"Middleburg Heights": "Cuyahoga",
	"Millersburg":        "Holmes",
	"Minerva":            "Stark",
	"Navarre":            "Stark",
	"North Canton":       "Stark",
	"North Olmsted":      "Cuyahoga",
	"North Ridgeville":   "Lorain",
	"North Royalton":     "Cuyahoga",
	"Oberlin":            "Lorain",
	"Orange Village":     "Cuyahoga",
	"Parma":              "Cuyahoga",
	"Rocky River":        "Cuyahoga",
	"Rootstown":          "Portage",
	"Shaker Heights":     "Cuyahoga",
	"Toronto":            "Jefferson",
	"Wadsworth":          "Medina",
	"Warren":             "Trumbull",
	"Westlake":           "Cuyahoga",
	"Willoughby":         "Lake",
	"Wooster":            "Wayne",
	"Youngstown":         "Mahoning",

	// Northwest
	"Ada":            "Hardin",
	"Bowling Green":  "Wood",
	"Bucyrus":        "Crawford",
	"Carey":          "Wyandot",
	"Celina":         "Mercer",
	"Coldwater":      "Mercer",
	"Defiance":       "Defiance",
	"Findlay":        "Hancock",
	"Fostoria":       "Seneca",
	"Fremont":        "Sandusky",
	"Grand Rapids":   "Wood",
	"Hicksville":     "Defiance",
	"Holland":        "Lucas",
	"Lima":           "Allen",
	"Lorain":         "Lorain",
	"Mansfield":      "Richland",
	"Maria Stein":    "Mercer",
	"Montpelier":     "Williams",
	"New Bremen":     "Auglaize",
	"Norwalk":        "Huron",
	"Oregon":         "Lucas",
	"Ottawa":         "Putnam",
	"Perrysburg":     "Wood",
	"Port Clinton":   "Ottawa",
	"Ridgeway":       "Hardin",
	"Sandusky":       "Erie",
	"Shelby":         "Richland",
	"Swanton":        "Fulton",
	"Sylvania":       "Lucas",
	"Tiffin":         "Seneca",
	"Toledo":         "Lucas",
	"Upper Sandusky": "Wyandot",
	"Van Wert":       "Van Wert",
	"Wakeman":        "Huron",
	"Waterville":     "Lucas",

	// Central
	"Buckeye Lake":     "Licking",
	"Canal Winchester": "Franklin",
	"Columbus":         "Franklin",
	"Delaware":         "Delaware",
	"Dublin":           "Franklin",
	"Gahanna":          "Franklin",
	"Granville":        "Licking",
	"Grove City":       "Franklin",
	"Heath":            "Licking",
	"Lancaster":        "Fairfield",
	"Lewis Center":     "Delaware",
	"Marion":           "Marion",
	"Marengo":          "Morrow",
	"Marysville":       "Union",
	"New Albany":       "Franklin",
	"Newark":           "Licking",
	"Pickerington":     "Fairfield",
	"Powell":           "Delaware",
	"Reynoldsburg":     "Franklin",
	"Richwood":         "Union",
	"Shawnee Hills":    "Delaware",
	"Westerville":      "Franklin",
	"Whitehall":        "Franklin",
	"Worthington":      "Franklin",

	// Southwest
	"Beavercreek":    "Greene",
	"Bellbrook":      "Greene",
	"Bellefontaine":  "Logan",
	"Blue Ash":       "Hamilton",
	"Centerville":    "Montgomery",
	"Cincinnati":     "Hamilton",
	"Dayton":         "Montgomery",
	"Eaton":          "Preble",
	"Englewood":      "Montgomery",
	"Enon":           "Clark",
	"Fairfield":      "Butler",
	"Hamilton":       "Butler",
	"Harrison":       "Hamilton",
	"Huber Heights":  "Montgomery",
	"Huntsville":     "Logan",
	"Kettering":      "Montgomery",
	"Lebanon":        "Warren",
	"Logan":          "Hocking",
	"Loveland":       "Hamilton",
	"Maineville":     "Warren",
	"Mason":          "Warren",
	"Medway":         "Clark",
	"Miamisburg":     "Montgomery",
	"Middletown":     "Butler",
	"Milford":        "Clermont",
	"Montgomery":     "Hamilton",
	"Morrow":         "Warren",
	"Mount Orab":     "Brown",
	"Oxford":         "Butler",
	"Piqua":          "Miami",
	"Russells Point": "Logan",
	"Sharonville":    "Hamilton",
	"Springfield":    "Clark",
	"Springboro":     "Warren",
	"St. Bernard":    "Hamilton",
	"Urbana":         "Champaign",
	"Vandalia":       "Montgomery",
	"West Chester":   "Butler",
	"Williamsburg":   "Clermont",
	"Wyoming":        "Hamilton",
	"Xenia":          "Greene",
	"Yellow Springs": "Greene",

	// Southeast
	"Albany":      "Athens",
	"Athens":      "Athens",
	"Caldwell":    "Noble",
	"Cambridge":   "Guernsey",
	"Chauncey":    "Athens",
	"Chillicothe": "Ross",
	"Frankfort":   "Ross",
	"Fresno":      "Coshocton",
	"Jackson":     "Jackson",
	"Marietta":    "Washington",
	"Minford":     "Scioto",
	"Nelsonville": "Athens",
	"Portsmouth":  "Scioto",
	"Zanesville":  "Muskingum",
}

// Authoritative city overrides for border cases where the county-based
// grouping does not match local convention. Logan sits in Hocking
// County but is conventionally grouped with Southeast Ohio.
var ohioRegionOverrides = map[string]Region{
	"Logan": Southeast,
}

// Display labels observed on the listing site mapped to canonical
// regions. Identity entries keep the lookup uniform.
var ohioRegionAliases = map[string]Region{
	"northeast": Northeast,
	"northwest": Northwest,
	"central":   Central,
	"southwest": Southwest,
	"southeast": Southeast,

	"greater cincinnati": Southwest,
	"greater columbus":   Central,
	"greater cleveland":  Northeast,
	"north central":      Northeast,
	"west central":       Southwest,
	"state line":         Northwest,
}
