// Пакет model — доменные модели casedesk.
// Case — карточка дела (сделки по переоформлению недвижимости),
// Message — сообщение в ленте дела.
package model

import "time"

// UserRef — ссылка на пользователя-владельца карточки.
type UserRef struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// CaseFields — редактируемые поля карточки дела.
// Все значения — строки: суммы хранятся как ввёл пользователь,
// датовые поля — в форме, описанной в пакете datefmt.
type CaseFields struct {
	Reference            string `json:"reference"`
	Parties              string `json:"parties"`
	Agency               string `json:"agency"`
	Agent                string `json:"agent"`
	Property             string `json:"property"`
	ErfNumber            string `json:"erfNumber"`
	PurchasePrice        string `json:"purchasePrice"`
	DepositAmount        string `json:"depositAmount"`
	BondAmount           string `json:"bondAmount"`
	BondBank             string `json:"bondBank"`
	BondAttorney         string `json:"bondAttorney"`
	TransferAttorney     string `json:"transferAttorney"`
	CancellationAttorney string `json:"cancellationAttorney"`
	SellerName           string `json:"sellerName"`
	SellerContact        string `json:"sellerContact"`
	PurchaserName        string `json:"purchaserName"`
	PurchaserContact     string `json:"purchaserContact"`
	Municipality         string `json:"municipality"`
	LevyAmount           string `json:"levyAmount"`
	TransferDutyAmount   string `json:"transferDutyAmount"`
	TransferCostAmount   string `json:"transferCostAmount"`

	InstructionReceived          string `json:"instructionReceived"`
	OTPReceived                  string `json:"otpReceived"`
	FicaSeller                   string `json:"ficaSeller"`
	FicaPurchaser                string `json:"ficaPurchaser"`
	TitleDeedReceived            string `json:"titleDeedReceived"`
	BondApproved                 string `json:"bondApproved"`
	BondInstructionReceived      string `json:"bondInstructionReceived"`
	CancellationFiguresRequested string `json:"cancellationFiguresRequested"`
	GuaranteesRequested          string `json:"guaranteesRequested"`
	GuaranteesReceived           string `json:"guaranteesReceived"`
	DepositReceived              string `json:"depositReceived"`
	TransferCostReceived         string `json:"transferCostReceived"`
	TransferDutyPaid             string `json:"transferDutyPaid"`
	RatesClearanceApplied        string `json:"ratesClearanceApplied"`
	RatesClearanceReceived       string `json:"ratesClearanceReceived"`
	LevyClearanceRequested       string `json:"levyClearanceRequested"`
	LevyClearanceReceived        string `json:"levyClearanceReceived"`
	ElectricalCompliance         string `json:"electricalCompliance"`
	GasCompliance                string `json:"gasCompliance"`
	BeetleCompliance             string `json:"beetleCompliance"`
	PlumbingCompliance           string `json:"plumbingCompliance"`
	ElectricFenceCompliance      string `json:"electricFenceCompliance"`
	SellerSigned                 string `json:"sellerSigned"`
	PurchaserSigned              string `json:"purchaserSigned"`
	LodgementDate                string `json:"lodgementDate"`
	RegistrationDate             string `json:"registrationDate"`
}

// refs возвращает указатели на поля структуры по имени поля.
func (f *CaseFields) refs() map[Field]*string {
	return map[Field]*string{
		FieldReference:            &f.Reference,
		FieldParties:              &f.Parties,
		FieldAgency:               &f.Agency,
		FieldAgent:                &f.Agent,
		FieldProperty:             &f.Property,
		FieldErfNumber:            &f.ErfNumber,
		FieldPurchasePrice:        &f.PurchasePrice,
		FieldDepositAmount:        &f.DepositAmount,
		FieldBondAmount:           &f.BondAmount,
		FieldBondBank:             &f.BondBank,
		FieldBondAttorney:         &f.BondAttorney,
		FieldTransferAttorney:     &f.TransferAttorney,
		FieldCancellationAttorney: &f.CancellationAttorney,
		FieldSellerName:           &f.SellerName,
		FieldSellerContact:        &f.SellerContact,
		FieldPurchaserName:        &f.PurchaserName,
		FieldPurchaserContact:     &f.PurchaserContact,
		FieldMunicipality:         &f.Municipality,
		FieldLevyAmount:           &f.LevyAmount,
		FieldTransferDutyAmount:   &f.TransferDutyAmount,
		FieldTransferCostAmount:   &f.TransferCostAmount,

		FieldInstructionReceived:          &f.InstructionReceived,
		FieldOTPReceived:                  &f.OTPReceived,
		FieldFicaSeller:                   &f.FicaSeller,
		FieldFicaPurchaser:                &f.FicaPurchaser,
		FieldTitleDeedReceived:            &f.TitleDeedReceived,
		FieldBondApproved:                 &f.BondApproved,
		FieldBondInstructionReceived:      &f.BondInstructionReceived,
		FieldCancellationFiguresRequested: &f.CancellationFiguresRequested,
		FieldGuaranteesRequested:          &f.GuaranteesRequested,
		FieldGuaranteesReceived:           &f.GuaranteesReceived,
		FieldDepositReceived:              &f.DepositReceived,
		FieldTransferCostReceived:         &f.TransferCostReceived,
		FieldTransferDutyPaid:             &f.TransferDutyPaid,
		FieldRatesClearanceApplied:        &f.RatesClearanceApplied,
		FieldRatesClearanceReceived:       &f.RatesClearanceReceived,
		FieldLevyClearanceRequested:       &f.LevyClearanceRequested,
		FieldLevyClearanceReceived:        &f.LevyClearanceReceived,
		FieldElectricalCompliance:         &f.ElectricalCompliance,
		FieldGasCompliance:                &f.GasCompliance,
		FieldBeetleCompliance:             &f.BeetleCompliance,
		FieldPlumbingCompliance:           &f.PlumbingCompliance,
		FieldElectricFenceCompliance:      &f.ElectricFenceCompliance,
		FieldSellerSigned:                 &f.SellerSigned,
		FieldPurchaserSigned:              &f.PurchaserSigned,
		FieldLodgementDate:                &f.LodgementDate,
		FieldRegistrationDate:             &f.RegistrationDate,
	}
}

// Value возвращает значение поля по имени ("" для неизвестного поля).
func (f *CaseFields) Value(name Field) string {
	if p, ok := f.refs()[name]; ok {
		return *p
	}
	return ""
}

// Set устанавливает значение поля. Возвращает false для неизвестного поля.
func (f *CaseFields) Set(name Field, value string) bool {
	p, ok := f.refs()[name]
	if !ok {
		return false
	}
	*p = value
	return true
}

// MapDates применяет fn ко всем датовым полям.
func (f *CaseFields) MapDates(fn func(string) string) {
	refs := f.refs()
	for _, name := range DateFields() {
		p := refs[name]
		*p = fn(*p)
	}
}

// Case — карточка дела.
// Хранится в таблице cases: служебные поля — отдельными столбцами,
// CaseFields — в jsonb-столбце data.
type Case struct {
	// ID — UUID карточки (назначается хранилищем при создании)
	ID string `json:"id"`
	CaseFields
	// IsActive — признак активного дела (по умолчанию true)
	IsActive bool `json:"isActive"`
	// Comments — свободный многострочный комментарий
	Comments string `json:"comments"`
	// Colors — подсветка полей при отображении
	Colors Colors `json:"colors"`
	// CreatedBy — владелец карточки, не меняется после создания
	CreatedBy UserRef `json:"createdBy"`
	// CreatedAt — время создания
	CreatedAt time.Time `json:"createdAt"`
	// UpdatedAt — время последнего изменения
	UpdatedAt time.Time `json:"updatedAt"`
}

// Clone возвращает глубокую копию карточки.
func (c *Case) Clone() *Case {
	cp := *c
	cp.Colors = c.Colors.Clone()
	return &cp
}
