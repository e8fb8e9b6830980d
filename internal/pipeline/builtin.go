package pipeline

import (
	"strings"

	"covid-insights/internal/model"
)

// builtinSampleCSV is the tiny built-in dataset used when no input file is
// given, so the CLI and server work out of the box.
const builtinSampleCSV = `Date_reported,Country_code,Country,WHO_region,New_cases,Cumulative_cases,New_deaths,Cumulative_deaths
2020-01-04,NE,Niger,AFR,,0,,0
2020-01-04,NO,Norway,EUR,,0,,0
2020-01-04,PW,Palau,WPR,0,0,0,0
2020-01-04,PY,Paraguay,AMR,,0,,0
2020-01-04,PN,Pitcairn,WPR,0,0,0,0
2020-01-04,SH,Saint Helena,AFR,,0,,0
2020-01-04,SM,San Marino,EUR,,0,,0
2020-01-04,RS,Serbia,EUR,,0,,0
2020-01-04,ZA,South Africa,AFR,0,0,0,0
2020-01-04,ES,Spain,EUR,0,0,0,0
2020-01-04,TH,Thailand,SEAR,0,0,0,0
2020-01-04,VU,Vanuatu,WPR,0,0,0,0
2020-01-04,VE,Venezuela (Bolivarian Republic of),AMR,,0,,0
2020-01-04,AI,Anguilla,AMR,,0,,0
2020-01-04,AZ,Azerbaijan,EUR,,0,,0
2020-01-04,BT,Bhutan,SEAR,0,0,0,0
`

// LoadBuiltinSample parses the built-in sample dataset.
func LoadBuiltinSample() (*model.Table, error) {
	return loadDelimited(strings.NewReader(builtinSampleCSV), ',', "builtin-sample")
}
