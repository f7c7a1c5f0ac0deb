package sqlgate

// PolicyConfig bounds what SQL the gate will let through.
type PolicyConfig struct {
	MaxRows            int
	AllowedTables       []string
	AllowedColumns      []string
	ForbiddenFunctions  []string
}

// DefaultForbiddenFunctions is the defence-in-depth blocklist applied on top
// of the AST check: functions that can sleep a connection, reach outside the
// database, or mutate session state.
func DefaultForbiddenFunctions() []string {
	return []string{
		"pg_sleep",
		"sleep",
		"dblink",
		"dblink_connect",
		"lo_import",
		"lo_export",
		"pg_read_file",
		"pg_ls_dir",
		"set_config",
		"pg_terminate_backend",
		"pg_cancel_backend",
		"copy",
		"xp_cmdshell",
	}
}

func allowed(name string, allowlist []string) bool {
	if len(allowlist) == 0 {
		return true
	}
	for _, a := range allowlist {
		if a == name {
			return true
		}
	}
	return false
}
