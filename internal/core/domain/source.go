package domain

// SourceCode identifies one of the fixed external sources the pipeline
// ingests from.
type SourceCode string

// The monitored sources.
const (
	// SourceANM is the Brazilian national mining agency
	// (Agência Nacional de Mineração).
	SourceANM SourceCode = "ANM"

	// SourceCPRM is the Brazilian geological survey
	// (Serviço Geológico do Brasil).
	SourceCPRM SourceCode = "CPRM"

	// SourceANP is the Brazilian petroleum regulator
	// (Agência Nacional do Petróleo).
	SourceANP SourceCode = "ANP"

	// SourceIBAMA is the Brazilian environmental agency
	// (Instituto Brasileiro do Meio Ambiente).
	SourceIBAMA SourceCode = "IBAMA"

	// SourceUSGS is the United States Geological Survey.
	SourceUSGS SourceCode = "USGS"

	// SourceSEC is the United States Securities and Exchange Commission.
	SourceSEC SourceCode = "SEC"
)

// AllSources returns the fixed set of source codes in registration order.
func AllSources() []SourceCode {
	return []SourceCode{
		SourceANM,
		SourceCPRM,
		SourceANP,
		SourceIBAMA,
		SourceUSGS,
		SourceSEC,
	}
}

// Valid reports whether c is one of the known source codes.
func (c SourceCode) Valid() bool {
	switch c {
	case SourceANM, SourceCPRM, SourceANP, SourceIBAMA, SourceUSGS, SourceSEC:
		return true
	}
	return false
}

// String returns the source code.
func (c SourceCode) String() string {
	return string(c)
}
