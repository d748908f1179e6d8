// Package normalize turns raw extract rows into the typed claim-line
// dataset: Brazilian-locale currency and dates, trimmed/upper-cased text
// with empty-as-nil, derived device flags and temporal keys.
package normalize

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/gyeh/aihaudit/internal/csvread"
	"github.com/gyeh/aihaudit/internal/model"
)

// Quality aggregates the non-fatal coercions and data-quality signals of a
// load. Signals are advisory: logged, never raised.
type Quality struct {
	Lines              int
	BadDates           int
	BadMoney           int
	IDsWithMultiNames  int
	NamesWithMultiIDs  int
	MissingAdmissionDt int
}

// BuildLines converts a validated claim extract into ClaimLines, logging
// quality signals along the way. Cell-level parse failures coerce to
// zero/nil and the row is retained.
func BuildLines(f *csvread.File, log zerolog.Logger) ([]model.ClaimLine, Quality) {
	q := Quality{Lines: f.Len()}
	lines := make([]model.ClaimLine, 0, f.Len())

	money := func(row int, col string) int64 {
		cents, ok := ParseMoneyCents(f.Field(row, col))
		if !ok && strings.TrimSpace(f.Field(row, col)) != "" {
			q.BadMoney++
		}
		return cents
	}
	for i := 0; i < f.Len(); i++ {
		admission := ParseDate(f.Field(i, "SP_DTINTER"))
		discharge := ParseDate(f.Field(i, "SP_DTSAIDA"))
		if admission == nil {
			if strings.TrimSpace(f.Field(i, "SP_DTINTER")) != "" {
				q.BadDates++
			}
			q.MissingAdmissionDt++
		}
		if discharge == nil && strings.TrimSpace(f.Field(i, "SP_DTSAIDA")) != "" {
			q.BadDates++
		}

		code := Text(f.Field(i, "SP_ATOPROF"))

		line := model.ClaimLine{
			ClaimID:                f.Field(i, "SP_NAIH"),
			PatientID:              Text(f.Field(i, "PACCNS")),
			PatientName:            Text(f.Field(i, "NOME")),
			PhysicianName:          Text(f.Field(i, "MEDICO")),
			ProcedureCode:          code,
			ProcedureDescription:   Text(f.Field(i, "DESC_ATO_PROF")),
			PrincipalProcedure:     Text(f.Field(i, "DESC_PROC_REAL")),
			PrincipalProcedureCode: Text(f.Field(i, "PROC_REA")),
			LineValueCents:         money(i, "SP_VALATO"),
			HospitalValueCents:     money(i, "VAL_SH"),
			ProfessionalValueCents: money(i, "VAL_SP"),
			AdmissionDate:          admission,
			DischargeDate:          discharge,
			PayeeTaxID:             Text(f.Field(i, "SP_PJ_DOC")),
			ProfessionalTaxID:      Text(f.Field(i, "SP_PF_DOC")),
			InvoiceNumber:          Text(f.Field(i, "SP_NF")),
			FacilityID:             Text(f.Field(i, "SP_CNES")),
			State:                  Text(f.Field(i, "SP_UF")),
			ManagerID:              Text(f.Field(i, "SP_GESTOR")),
			RefYear:                Text(f.Field(i, "SP_AA")),
			RefMonth:               Text(f.Field(i, "SP_MM")),
			IsDevice:               code != nil && strings.HasPrefix(*code, model.DeviceCodePrefix),
			AdmissionYear:          Year(admission),
			AdmissionPeriod:        Period(admission),
		}
		lines = append(lines, line)
	}

	q.IDsWithMultiNames, q.NamesWithMultiIDs = identitySignals(lines)

	log.Info().
		Int("lines", q.Lines).
		Int("bad_dates", q.BadDates).
		Int("bad_money", q.BadMoney).
		Msg("claim lines normalized")
	if q.IDsWithMultiNames > 0 {
		log.Warn().Int("count", q.IDsWithMultiNames).Msg("patient ids associated with multiple distinct names")
	}
	if q.NamesWithMultiIDs > 0 {
		log.Warn().Int("count", q.NamesWithMultiIDs).Msg("patient names associated with multiple distinct ids")
	}

	return lines, q
}

// identitySignals counts patient ids mapped to more than one name and names
// mapped to more than one id.
func identitySignals(lines []model.ClaimLine) (multiNames, multiIDs int) {
	namesByID := make(map[string]map[string]struct{})
	idsByName := make(map[string]map[string]struct{})
	for i := range lines {
		id := lines[i].PatientID
		name := lines[i].PatientName
		if id != nil && name != nil {
			if namesByID[*id] == nil {
				namesByID[*id] = make(map[string]struct{})
			}
			namesByID[*id][*name] = struct{}{}
			if idsByName[*name] == nil {
				idsByName[*name] = make(map[string]struct{})
			}
			idsByName[*name][*id] = struct{}{}
		}
	}
	for _, names := range namesByID {
		if len(names) > 1 {
			multiNames++
		}
	}
	for _, ids := range idsByName {
		if len(ids) > 1 {
			multiIDs++
		}
	}
	return multiNames, multiIDs
}

// BuildSuppliers converts the supplier registry into a CNPJ→legal-name
// index. CNPJs are zero-padded to 14 digits so the join key matches the
// claim extract's payee ids.
func BuildSuppliers(f *csvread.File, log zerolog.Logger) []model.Supplier {
	byCNPJ := make(map[string]int)
	suppliers := make([]model.Supplier, 0, f.Len())
	for i := 0; i < f.Len(); i++ {
		raw := strings.TrimSpace(f.Field(i, "CNPJ"))
		if raw == "" {
			continue
		}
		cnpj := PadCNPJ(raw)
		if _, dup := byCNPJ[cnpj]; dup {
			continue
		}
		byCNPJ[cnpj] = len(suppliers)
		suppliers = append(suppliers, model.Supplier{
			CNPJ:      cnpj,
			LegalName: Text(f.Field(i, "RAZAO_SOCIAL")),
		})
	}
	log.Info().Int("suppliers", len(suppliers)).Msg("supplier registry loaded")
	return suppliers
}
