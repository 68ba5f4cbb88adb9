package schema

import _ "embed"

//go:embed sqlite.sql
var SQLite string

//go:embed mysql.sql
var MySQL string
