package models

import (
	"time"

	"github.com/noah-isme/pentadosen-api/pkg/civildate"
)

// HKIType is the kind of intellectual property right (jenis ciptaan).
type HKIType string

const (
	HKICopyrightGeneral HKIType = "Hak Cipta (Umum)"
	HKICopyrightDigital HKIType = "Hak Cipta (Digital/PT)"
	HKIPatent           HKIType = "Paten Biasa"
	HKISimplePatent     HKIType = "Paten Sederhana"
	HKITrademark        HKIType = "Merek"
	HKIIndustrialDesign HKIType = "Desain Industri"
	HKICircuitLayout    HKIType = "DTLST"
	HKITradeSecret      HKIType = "Rahasia Dagang"
)

// HKITypes lists every accepted type.
var HKITypes = []HKIType{
	HKICopyrightGeneral, HKICopyrightDigital, HKIPatent, HKISimplePatent,
	HKITrademark, HKIIndustrialDesign, HKICircuitLayout, HKITradeSecret,
}

// HKI is an intellectual property record with one document slot.
type HKI struct {
	ID             string         `json:"id" yaml:"id"`
	Title          string         `json:"title" yaml:"title"`
	Type           HKIType        `json:"jenisCiptaan" yaml:"jenisCiptaan"`
	ApplicationNo  string         `json:"nomorPermohonan" yaml:"nomorPermohonan"`
	AnnouncedPlace string         `json:"tempatDiumumkan" yaml:"tempatDiumumkan"`
	AnnouncedOn    civildate.Date `json:"tanggalDiumumkan" yaml:"tanggalDiumumkan"`
	RegistrationNo string         `json:"nomorPencatatan" yaml:"nomorPencatatan"`
	Creators       []string       `json:"pencipta" yaml:"pencipta"`
	Holders        []string       `json:"pemegang" yaml:"pemegang"`
	Document       *Artifact      `json:"document,omitempty" yaml:"-"`
	CreatedAt      time.Time      `json:"createdAt" yaml:"-"`
	UpdatedAt      time.Time      `json:"updatedAt" yaml:"-"`
}

// Year is derived from the announcement date.
func (h *HKI) Year() int {
	if h.AnnouncedOn.IsZero() {
		return 0
	}
	return h.AnnouncedOn.Year()
}

// Clone returns a deep copy.
func (h *HKI) Clone() *HKI {
	c := *h
	c.Creators = append([]string(nil), h.Creators...)
	c.Holders = append([]string(nil), h.Holders...)
	c.Document = h.Document.Clone()
	return &c
}

// HKIFilter narrows HKI listings.
type HKIFilter struct {
	Search   string
	Type     HKIType
	Year     int
	Page     int
	PageSize int
}

// ProtectionStatus reports whether an HKI right is still in force.
type ProtectionStatus string

const (
	ProtectionActive  ProtectionStatus = "Active"
	ProtectionExpired ProtectionStatus = "Expired"
)

// HKIProtection describes the protection period of a right.
type HKIProtection struct {
	Duration  string           `json:"duration"`
	Years     int              `json:"years,omitempty"`
	EndDate   *civildate.Date  `json:"endDate,omitempty"`
	Unlimited bool             `json:"unlimited"`
	Status    ProtectionStatus `json:"status"`
}
