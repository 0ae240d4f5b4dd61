package model

// Field — имя поля карточки дела (совпадает с ключом JSON).
type Field string

// Текстовые поля.
const (
	FieldReference            Field = "reference"
	FieldParties              Field = "parties"
	FieldAgency               Field = "agency"
	FieldAgent                Field = "agent"
	FieldProperty             Field = "property"
	FieldErfNumber            Field = "erfNumber"
	FieldPurchasePrice        Field = "purchasePrice"
	FieldDepositAmount        Field = "depositAmount"
	FieldBondAmount           Field = "bondAmount"
	FieldBondBank             Field = "bondBank"
	FieldBondAttorney         Field = "bondAttorney"
	FieldTransferAttorney     Field = "transferAttorney"
	FieldCancellationAttorney Field = "cancellationAttorney"
	FieldSellerName           Field = "sellerName"
	FieldSellerContact        Field = "sellerContact"
	FieldPurchaserName        Field = "purchaserName"
	FieldPurchaserContact     Field = "purchaserContact"
	FieldMunicipality         Field = "municipality"
	FieldLevyAmount           Field = "levyAmount"
	FieldTransferDutyAmount   Field = "transferDutyAmount"
	FieldTransferCostAmount   Field = "transferCostAmount"
)

// Датовые поля: дата, пусто или служебное значение (N/A, Partly, Requested).
const (
	FieldInstructionReceived          Field = "instructionReceived"
	FieldOTPReceived                  Field = "otpReceived"
	FieldFicaSeller                   Field = "ficaSeller"
	FieldFicaPurchaser                Field = "ficaPurchaser"
	FieldTitleDeedReceived            Field = "titleDeedReceived"
	FieldBondApproved                 Field = "bondApproved"
	FieldBondInstructionReceived      Field = "bondInstructionReceived"
	FieldCancellationFiguresRequested Field = "cancellationFiguresRequested"
	FieldGuaranteesRequested          Field = "guaranteesRequested"
	FieldGuaranteesReceived           Field = "guaranteesReceived"
	FieldDepositReceived              Field = "depositReceived"
	FieldTransferCostReceived         Field = "transferCostReceived"
	FieldTransferDutyPaid             Field = "transferDutyPaid"
	FieldRatesClearanceApplied        Field = "ratesClearanceApplied"
	FieldRatesClearanceReceived       Field = "ratesClearanceReceived"
	FieldLevyClearanceRequested       Field = "levyClearanceRequested"
	FieldLevyClearanceReceived        Field = "levyClearanceReceived"
	FieldElectricalCompliance         Field = "electricalCompliance"
	FieldGasCompliance                Field = "gasCompliance"
	FieldBeetleCompliance             Field = "beetleCompliance"
	FieldPlumbingCompliance           Field = "plumbingCompliance"
	FieldElectricFenceCompliance      Field = "electricFenceCompliance"
	FieldSellerSigned                 Field = "sellerSigned"
	FieldPurchaserSigned              Field = "purchaserSigned"
	FieldLodgementDate                Field = "lodgementDate"
	FieldRegistrationDate             Field = "registrationDate"
)

// Поля вне CaseFields, для которых тоже допустима подсветка.
const (
	FieldComments Field = "comments"
	FieldIsActive Field = "isActive"
)

// fieldDef — описание поля: имя и подпись для таблиц и отчёта.
type fieldDef struct {
	name  Field
	label string
	date  bool
}

// fieldDefs — все поля карточки в порядке отображения.
var fieldDefs = []fieldDef{
	{FieldReference, "Reference", false},
	{FieldParties, "Parties", false},
	{FieldProperty, "Property", false},
	{FieldErfNumber, "Erf number", false},
	{FieldAgency, "Agency", false},
	{FieldAgent, "Agent", false},
	{FieldPurchasePrice, "Purchase price", false},
	{FieldDepositAmount, "Deposit amount", false},
	{FieldBondAmount, "Bond amount", false},
	{FieldBondBank, "Bond bank", false},
	{FieldBondAttorney, "Bond attorney", false},
	{FieldTransferAttorney, "Transfer attorney", false},
	{FieldCancellationAttorney, "Cancellation attorney", false},
	{FieldSellerName, "Seller", false},
	{FieldSellerContact, "Seller contact", false},
	{FieldPurchaserName, "Purchaser", false},
	{FieldPurchaserContact, "Purchaser contact", false},
	{FieldMunicipality, "Municipality", false},
	{FieldLevyAmount, "Levy amount", false},
	{FieldTransferDutyAmount, "Transfer duty", false},
	{FieldTransferCostAmount, "Transfer cost", false},

	{FieldInstructionReceived, "Instruction received", true},
	{FieldOTPReceived, "OTP received", true},
	{FieldFicaSeller, "FICA seller", true},
	{FieldFicaPurchaser, "FICA purchaser", true},
	{FieldTitleDeedReceived, "Title deed received", true},
	{FieldBondApproved, "Bond approved", true},
	{FieldBondInstructionReceived, "Bond instruction received", true},
	{FieldCancellationFiguresRequested, "Cancellation figures requested", true},
	{FieldGuaranteesRequested, "Guarantees requested", true},
	{FieldGuaranteesReceived, "Guarantees received", true},
	{FieldDepositReceived, "Deposit received", true},
	{FieldTransferCostReceived, "Transfer cost received", true},
	{FieldTransferDutyPaid, "Transfer duty paid", true},
	{FieldRatesClearanceApplied, "Rates clearance applied", true},
	{FieldRatesClearanceReceived, "Rates clearance received", true},
	{FieldLevyClearanceRequested, "Levy clearance requested", true},
	{FieldLevyClearanceReceived, "Levy clearance received", true},
	{FieldElectricalCompliance, "Electrical compliance", true},
	{FieldGasCompliance, "Gas compliance", true},
	{FieldBeetleCompliance, "Beetle compliance", true},
	{FieldPlumbingCompliance, "Plumbing compliance", true},
	{FieldElectricFenceCompliance, "Electric fence compliance", true},
	{FieldSellerSigned, "Seller signed", true},
	{FieldPurchaserSigned, "Purchaser signed", true},
	{FieldLodgementDate, "Lodgement", true},
	{FieldRegistrationDate, "Registration", true},
}

var (
	fieldIndex = func() map[Field]fieldDef {
		m := make(map[Field]fieldDef, len(fieldDefs))
		for _, d := range fieldDefs {
			m[d.name] = d
		}
		return m
	}()
)

// TextFields возвращает текстовые поля в порядке отображения.
func TextFields() []Field {
	return collect(false)
}

// DateFields возвращает датовые поля в порядке отображения.
func DateFields() []Field {
	return collect(true)
}

func collect(date bool) []Field {
	var out []Field
	for _, d := range fieldDefs {
		if d.date == date {
			out = append(out, d.name)
		}
	}
	return out
}

// IsKnown проверяет, что имя поля входит в схему карточки.
func (f Field) IsKnown() bool {
	if f == FieldComments || f == FieldIsActive {
		return true
	}
	_, ok := fieldIndex[f]
	return ok
}

// IsDate сообщает, является ли поле датовым.
func (f Field) IsDate() bool {
	return fieldIndex[f].date
}

// Label возвращает подпись поля; для неизвестного поля — его имя.
func (f Field) Label() string {
	switch f {
	case FieldComments:
		return "Comments"
	case FieldIsActive:
		return "Active"
	}
	if d, ok := fieldIndex[f]; ok {
		return d.label
	}
	return string(f)
}
