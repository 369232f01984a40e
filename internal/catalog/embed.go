package catalog

import _ "embed"

//go:embed universities.json
var catalogData []byte
