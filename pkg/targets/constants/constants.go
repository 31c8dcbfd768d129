package constants

// Insert protocols supported for loading
const (
	ProtocolTaosc = "taosc"
	ProtocolREST  = "rest"
	ProtocolStmt  = "stmt"
	ProtocolSML   = "sml"
)

func SupportedProtocols() []string {
	return []string{
		ProtocolTaosc,
		ProtocolREST,
		ProtocolStmt,
		ProtocolSML,
	}
}

// Schemaless encodings accepted by the sml protocol
const (
	SMLLine   = "line"
	SMLTelnet = "telnet"
	SMLJSON   = "json"
)

func SupportedSMLProtocols() []string {
	return []string{SMLLine, SMLTelnet, SMLJSON}
}
