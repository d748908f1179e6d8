package model

// AlertKind identifies one detector of the audit catalog.
type AlertKind struct {
	Key         string // stable key, used for config selection and file names
	Title       string
	Explanation string
}

// AllAlertKinds lists the catalog in canonical execution order.
var AllAlertKinds = []AlertKind{
	{
		Key:   "early_readmission",
		Title: "Reinternações em Curto Período",
		Explanation: "Pacientes com nova internação em menos de 30 dias após a alta da internação anterior. " +
			"Pode indicar tratamento inadequado, complicações não gerenciadas ou fracionamento indevido de tratamento.",
	},
	{
		Key:   "multi_procedures_per_day",
		Title: "AIHs com Múltiplos Procedimentos no Dia",
		Explanation: "AIHs com mais de 3 procedimentos principais distintos registrados para o mesmo paciente " +
			"no mesmo dia de internação. Pode indicar cobrança excessiva ou erros de registro.",
	},
	{
		Key:   "patient_excessive_acts",
		Title: "Pacientes com Múltiplos Atos Profissionais",
		Explanation: "Pacientes com mais de 2 atos profissionais (não OPME) distintos registrados em suas AIHs " +
			"no período analisado. Pode indicar fragmentação de cuidados ou cobranças múltiplas.",
	},
	{
		Key:   "physician_high_cost_acts",
		Title: "Médicos com Alta Frequência de Atos de Alto Custo",
		Explanation: "Médicos com frequência de procedimentos de alto custo igual ou acima do percentil 90 " +
			"dos demais médicos. Requer análise para verificar a pertinência e conformidade.",
	},
	{
		Key:   "multi_devices_per_claim",
		Title: "AIHs com Múltiplas OPMEs",
		Explanation: "AIHs com mais de 2 registros de OPME diferentes. Pode indicar uso excessivo ou " +
			"desnecessário de materiais, ou faturamento fragmentado.",
	},
	{
		Key:   "supplier_concentration",
		Title: "Fornecedores de OPME Concentrados",
		Explanation: "Fornecedores de OPME que detêm mais de 50% do valor total de OPME fornecido. " +
			"Pode indicar direcionamento ou falta de cotação.",
	},
	{
		Key:   "device_cost_outliers",
		Title: "Outliers de Custo de OPME",
		Explanation: "Registros de OPME cujo valor é um outlier estatístico (método IQR). " +
			"Pode indicar superfaturamento.",
	},
	{
		Key:   "duplicate_device_invoices",
		Title: "Notas Fiscais de OPME Duplicadas",
		Explanation: "Notas fiscais de OPME associadas a múltiplas AIHs do mesmo fornecedor. " +
			"Indício de possível faturamento duplicado do mesmo material.",
	},
	{
		Key:   "device_missing_invoice",
		Title: "OPME sem Nota Fiscal",
		Explanation: "Registros de OPME sem número de Nota Fiscal associado. A NF é obrigatória para " +
			"comprovar a aquisição e o custo da OPME.",
	},
	{
		Key:   "high_professional_ratio",
		Title: "Alta Proporção de Serviços Profissionais",
		Explanation: "AIHs onde o valor dos serviços profissionais é mais de 5 vezes o valor dos serviços " +
			"hospitalares. Pode indicar desproporção nos custos ou faturamento inadequado.",
	},
	{
		Key:   "high_device_share",
		Title: "Alta Proporção de OPME no Custo Total",
		Explanation: "AIHs onde o custo total das OPMEs representa mais de 70% do custo total da AIH " +
			"(SH + SP + OPME). A OPME como principal direcionador de custo necessita análise de pertinência.",
	},
	{
		Key:   "physician_facility_concentration",
		Title: "Médicos Concentrados por Hospital",
		Explanation: "Médicos que realizaram mais de 50% do total de AIHs (não OPME) de um determinado " +
			"hospital (CNES). Pode indicar dependência do hospital em poucos profissionais.",
	},
	{
		Key:   "device_without_procedure",
		Title: "OPME sem Procedimento Principal Correspondente",
		Explanation: "Registros de OPME que, na mesma AIH, não estão acompanhados de um procedimento principal " +
			"que tipicamente justificaria seu uso (ex.: stent sem angioplastia). A correspondência é por " +
			"palavras-chave e pode precisar de refinamento com tabelas de compatibilidade.",
	},
	{
		Key:   "physician_supplier_concentration",
		Title: "Concentração Médico-Fornecedor de OPME",
		Explanation: "Médicos que concentram mais de 70% do valor de OPME em um único fornecedor, com volume " +
			"acima da mediana. Pode indicar direcionamento ou falta de diversidade na aquisição.",
	},
	{
		Key:   "weekend_procedures",
		Title: "Procedimentos em Dias Não Úteis",
		Explanation: "Procedimentos com mais de 30% de suas ocorrências em finais de semana e mais de 3 casos " +
			"absolutos no FDS. Procedimentos eletivos nessas condições podem requerer justificativa.",
	},
	{
		Key:   "patient_multiple_names",
		Title: "Múltiplos Nomes para o Mesmo Cartão",
		Explanation: "Cartões (PACCNS) associados a nomes distintos. Pode significar duplicidade no registro " +
			"de AIHs para um mesmo paciente, homônimos ou erros de digitação (verificar com outro documento).",
	},
	{
		Key:   "patient_multiple_ids",
		Title: "Múltiplos Cartões para o Mesmo Nome",
		Explanation: "Nomes associados a mais de um cartão (PACCNS). Pode significar duplicidade no registro " +
			"de AIHs para um mesmo paciente, homônimos ou erros de digitação (verificar com outro documento).",
	},
}

// AlertKindByKey returns the AlertKind for the given key, or ok=false.
func AlertKindByKey(key string) (AlertKind, bool) {
	for _, k := range AllAlertKinds {
		if k.Key == key {
			return k, true
		}
	}
	return AlertKind{}, false
}

// AlertKeys returns the catalog keys in canonical order.
func AlertKeys() []string {
	keys := make([]string, len(AllAlertKinds))
	for i, k := range AllAlertKinds {
		keys[i] = k.Key
	}
	return keys
}

// Table is an ordered, export-ready result table. Cells are pre-formatted
// strings; money cells use the Brazilian locale produced by normalize.
type Table struct {
	Columns []string
	Rows    [][]string
}

// NewTable creates an empty table with the given column set.
func NewTable(columns ...string) *Table {
	return &Table{Columns: columns}
}

// Append adds one row. The caller is responsible for matching the column
// count; Append pads short rows so exports stay rectangular.
func (t *Table) Append(cells ...string) {
	for len(cells) < len(t.Columns) {
		cells = append(cells, "")
	}
	t.Rows = append(t.Rows, cells)
}

// Empty reports whether the table has no rows. A nil table is empty.
func (t *Table) Empty() bool {
	return t == nil || len(t.Rows) == 0
}

// Len returns the row count of a possibly-nil table.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// AlertResult is one non-empty detector finding: the kind (key, title and
// static explanation) plus the evidence table. Results are computed fresh on
// every run and never persisted.
type AlertResult struct {
	Kind  AlertKind
	Table *Table
}
