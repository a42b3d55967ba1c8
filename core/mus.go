package core

import (
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// Hand-written MUS serializers for the stored domain types. Field order is
// the struct order; changing either breaks previously written databases.

// IDMUS serializes ID values.
var IDMUS = idMUS{}

type idMUS struct{}

func (idMUS) Marshal(id ID, bs []byte) int {
	return varint.Uint64.Marshal(uint64(id), bs)
}

func (idMUS) Unmarshal(bs []byte) (ID, int, error) {
	v, n, err := varint.Uint64.Unmarshal(bs)
	return ID(v), n, err
}

func (idMUS) Size(id ID) int {
	return varint.Uint64.Size(uint64(id))
}

func (idMUS) Skip(bs []byte) (int, error) {
	return varint.Uint64.Skip(bs)
}

// enumMUS serializes int-backed enums (DocumentKind, AttackClass, ReportStatus).
type enumMUS[T ~int] struct{}

func (enumMUS[T]) Marshal(v T, bs []byte) int {
	return varint.Int.Marshal(int(v), bs)
}

func (enumMUS[T]) Unmarshal(bs []byte) (T, int, error) {
	v, n, err := varint.Int.Unmarshal(bs)
	return T(v), n, err
}

func (enumMUS[T]) Size(v T) int {
	return varint.Int.Size(int(v))
}

func (enumMUS[T]) Skip(bs []byte) (int, error) {
	return varint.Int.Skip(bs)
}

var (
	documentKindMUS = enumMUS[DocumentKind]{}
	attackClassMUS  = enumMUS[AttackClass]{}
	reportStatusMUS = enumMUS[ReportStatus]{}
)

var (
	timeMUS        = raw.TimeUnixMicro
	stringSliceMUS = ord.NewSliceSer[string](ord.String)
)

// FindingMUS serializes Finding values.
var FindingMUS = findingMUS{}

type findingMUS struct{}

func (findingMUS) Marshal(f Finding, bs []byte) (n int) {
	n = raw.Float64.Marshal(f.Score, bs)
	n += ord.String.Marshal(f.Text, bs[n:])
	return n
}

func (findingMUS) Unmarshal(bs []byte) (f Finding, n int, err error) {
	f.Score, n, err = raw.Float64.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	f.Text, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	return
}

func (findingMUS) Size(f Finding) int {
	return raw.Float64.Size(f.Score) + ord.String.Size(f.Text)
}

func (findingMUS) Skip(bs []byte) (n int, err error) {
	n, err = raw.Float64.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	return
}

var findingSliceMUS = ord.NewSliceSer[Finding](FindingMUS)

// PaperMUS serializes Paper values.
var PaperMUS = paperMUS{}

type paperMUS struct{}

func (paperMUS) Marshal(p Paper, bs []byte) (n int) {
	n = ord.String.Marshal(p.Title, bs)
	n += ord.String.Marshal(p.Abstract, bs[n:])
	n += ord.String.Marshal(p.URL, bs[n:])
	n += attackClassMUS.Marshal(p.Class, bs[n:])
	return n
}

func (paperMUS) Unmarshal(bs []byte) (p Paper, n int, err error) {
	var n1 int
	p.Title, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	p.Abstract, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	p.URL, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	p.Class, n1, err = attackClassMUS.Unmarshal(bs[n:])
	n += n1
	return
}

func (paperMUS) Size(p Paper) int {
	return ord.String.Size(p.Title) + ord.String.Size(p.Abstract) +
		ord.String.Size(p.URL) + attackClassMUS.Size(p.Class)
}

func (paperMUS) Skip(bs []byte) (n int, err error) {
	var n1 int
	for i := 0; i < 3; i++ {
		n1, err = ord.String.Skip(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	n1, err = attackClassMUS.Skip(bs[n:])
	n += n1
	return
}

var paperSliceMUS = ord.NewSliceSer[Paper](PaperMUS)

// AttackSearchMUS serializes AttackSearch values.
var AttackSearchMUS = attackSearchMUS{}

type attackSearchMUS struct{}

func (attackSearchMUS) Marshal(s AttackSearch, bs []byte) (n int) {
	n = ord.String.Marshal(s.Query, bs)
	n += ord.String.Marshal(s.Keyword, bs[n:])
	n += paperSliceMUS.Marshal(s.Papers, bs[n:])
	return n
}

func (attackSearchMUS) Unmarshal(bs []byte) (s AttackSearch, n int, err error) {
	var n1 int
	s.Query, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	s.Keyword, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	s.Papers, n1, err = paperSliceMUS.Unmarshal(bs[n:])
	n += n1
	return
}

func (attackSearchMUS) Size(s AttackSearch) int {
	return ord.String.Size(s.Query) + ord.String.Size(s.Keyword) +
		paperSliceMUS.Size(s.Papers)
}

func (attackSearchMUS) Skip(bs []byte) (n int, err error) {
	var n1 int
	for i := 0; i < 2; i++ {
		n1, err = ord.String.Skip(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	n1, err = paperSliceMUS.Skip(bs[n:])
	n += n1
	return
}

var attackSearchSliceMUS = ord.NewSliceSer[AttackSearch](AttackSearchMUS)

// SubmissionMUS serializes Submission values.
var SubmissionMUS = submissionMUS{}

type submissionMUS struct{}

func (submissionMUS) Marshal(s Submission, bs []byte) (n int) {
	n = ord.String.Marshal(s.Number, bs)
	n += ord.String.Marshal(s.Device, bs[n:])
	n += ord.String.Marshal(s.Company, bs[n:])
	n += ord.String.Marshal(s.Panel, bs[n:])
	n += timeMUS.Marshal(s.DecisionDate, bs[n:])
	n += ord.String.Marshal(s.KnownAlgo, bs[n:])
	n += ord.String.Marshal(s.Description, bs[n:])
	n += timeMUS.Marshal(s.InsertedAt, bs[n:])
	n += timeMUS.Marshal(s.UpdatedAt, bs[n:])
	return n
}

func (submissionMUS) Unmarshal(bs []byte) (s Submission, n int, err error) {
	var n1 int
	strs := []*string{&s.Number, &s.Device, &s.Company, &s.Panel}
	for _, dst := range strs {
		*dst, n1, err = ord.String.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	s.DecisionDate, n1, err = timeMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	s.KnownAlgo, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	s.Description, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	s.InsertedAt, n1, err = timeMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	s.UpdatedAt, n1, err = timeMUS.Unmarshal(bs[n:])
	n += n1
	return
}

func (submissionMUS) Size(s Submission) int {
	return ord.String.Size(s.Number) + ord.String.Size(s.Device) +
		ord.String.Size(s.Company) + ord.String.Size(s.Panel) +
		timeMUS.Size(s.DecisionDate) + ord.String.Size(s.KnownAlgo) +
		ord.String.Size(s.Description) + timeMUS.Size(s.InsertedAt) +
		timeMUS.Size(s.UpdatedAt)
}

func (submissionMUS) Skip(bs []byte) (n int, err error) {
	var n1 int
	for i := 0; i < 4; i++ {
		n1, err = ord.String.Skip(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	n1, err = timeMUS.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	for i := 0; i < 2; i++ {
		n1, err = ord.String.Skip(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	for i := 0; i < 2; i++ {
		n1, err = timeMUS.Skip(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	return
}

// DocumentMUS serializes Document values.
var DocumentMUS = documentMUS{}

type documentMUS struct{}

func (documentMUS) Marshal(d Document, bs []byte) (n int) {
	n = ord.String.Marshal(d.SubmissionNumber, bs)
	n += ord.String.Marshal(d.SourceURL, bs[n:])
	n += documentKindMUS.Marshal(d.Kind, bs[n:])
	n += stringSliceMUS.Marshal(d.Passages, bs[n:])
	n += timeMUS.Marshal(d.FetchedAt, bs[n:])
	n += timeMUS.Marshal(d.InsertedAt, bs[n:])
	n += timeMUS.Marshal(d.UpdatedAt, bs[n:])
	return n
}

func (documentMUS) Unmarshal(bs []byte) (d Document, n int, err error) {
	var n1 int
	d.SubmissionNumber, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	d.SourceURL, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	d.Kind, n1, err = documentKindMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	d.Passages, n1, err = stringSliceMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	times := []*time.Time{&d.FetchedAt, &d.InsertedAt, &d.UpdatedAt}
	for _, dst := range times {
		*dst, n1, err = timeMUS.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	return
}

func (documentMUS) Size(d Document) int {
	return ord.String.Size(d.SubmissionNumber) + ord.String.Size(d.SourceURL) +
		documentKindMUS.Size(d.Kind) + stringSliceMUS.Size(d.Passages) +
		timeMUS.Size(d.FetchedAt) + timeMUS.Size(d.InsertedAt) +
		timeMUS.Size(d.UpdatedAt)
}

func (documentMUS) Skip(bs []byte) (n int, err error) {
	var n1 int
	for i := 0; i < 2; i++ {
		n1, err = ord.String.Skip(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	n1, err = documentKindMUS.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = stringSliceMUS.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	for i := 0; i < 3; i++ {
		n1, err = timeMUS.Skip(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	return
}

// ReportMUS serializes Report values.
var ReportMUS = reportMUS{}

type reportMUS struct{}

func (reportMUS) Marshal(r Report, bs []byte) (n int) {
	n = IDMUS.Marshal(r.Id, bs)
	n += ord.String.Marshal(r.SubmissionNumber, bs[n:])
	n += ord.String.Marshal(r.Device, bs[n:])
	n += ord.String.Marshal(r.Company, bs[n:])
	n += ord.String.Marshal(r.Panel, bs[n:])
	n += timeMUS.Marshal(r.DecisionDate, bs[n:])
	n += reportStatusMUS.Marshal(r.Status, bs[n:])
	n += findingSliceMUS.Marshal(r.Algorithms, bs[n:])
	n += findingSliceMUS.Marshal(r.Validated, bs[n:])
	n += findingSliceMUS.Marshal(r.InputFormats, bs[n:])
	n += stringSliceMUS.Marshal(r.AltKeywords, bs[n:])
	n += attackSearchSliceMUS.Marshal(r.AttackSearches, bs[n:])
	n += paperSliceMUS.Marshal(r.Rejected, bs[n:])
	n += timeMUS.Marshal(r.InsertedAt, bs[n:])
	n += timeMUS.Marshal(r.UpdatedAt, bs[n:])
	return n
}

func (reportMUS) Unmarshal(bs []byte) (r Report, n int, err error) {
	var n1 int
	r.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	strs := []*string{&r.SubmissionNumber, &r.Device, &r.Company, &r.Panel}
	for _, dst := range strs {
		*dst, n1, err = ord.String.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	r.DecisionDate, n1, err = timeMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	r.Status, n1, err = reportStatusMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	findings := []*[]Finding{&r.Algorithms, &r.Validated, &r.InputFormats}
	for _, dst := range findings {
		*dst, n1, err = findingSliceMUS.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	r.AltKeywords, n1, err = stringSliceMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	r.AttackSearches, n1, err = attackSearchSliceMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	r.Rejected, n1, err = paperSliceMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	r.InsertedAt, n1, err = timeMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	r.UpdatedAt, n1, err = timeMUS.Unmarshal(bs[n:])
	n += n1
	return
}

func (reportMUS) Size(r Report) int {
	return IDMUS.Size(r.Id) + ord.String.Size(r.SubmissionNumber) +
		ord.String.Size(r.Device) + ord.String.Size(r.Company) +
		ord.String.Size(r.Panel) + timeMUS.Size(r.DecisionDate) +
		reportStatusMUS.Size(r.Status) + findingSliceMUS.Size(r.Algorithms) +
		findingSliceMUS.Size(r.Validated) + findingSliceMUS.Size(r.InputFormats) +
		stringSliceMUS.Size(r.AltKeywords) + attackSearchSliceMUS.Size(r.AttackSearches) +
		paperSliceMUS.Size(r.Rejected) + timeMUS.Size(r.InsertedAt) +
		timeMUS.Size(r.UpdatedAt)
}

func (reportMUS) Skip(bs []byte) (n int, err error) {
	var n1 int
	n, err = IDMUS.Skip(bs)
	if err != nil {
		return
	}
	for i := 0; i < 4; i++ {
		n1, err = ord.String.Skip(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	n1, err = timeMUS.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = reportStatusMUS.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	for i := 0; i < 3; i++ {
		n1, err = findingSliceMUS.Skip(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	n1, err = stringSliceMUS.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = attackSearchSliceMUS.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = paperSliceMUS.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	for i := 0; i < 2; i++ {
		n1, err = timeMUS.Skip(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	return
}

// CheckpointMUS serializes Checkpoint values.
var CheckpointMUS = checkpointMUS{}

type checkpointMUS struct{}

func (checkpointMUS) Marshal(c Checkpoint, bs []byte) (n int) {
	n = ord.String.Marshal(c.Stage, bs)
	n += ord.String.Marshal(c.LastSubmission, bs[n:])
	n += timeMUS.Marshal(c.UpdatedAt, bs[n:])
	return n
}

func (checkpointMUS) Unmarshal(bs []byte) (c Checkpoint, n int, err error) {
	var n1 int
	c.Stage, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	c.LastSubmission, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	c.UpdatedAt, n1, err = timeMUS.Unmarshal(bs[n:])
	n += n1
	return
}

func (checkpointMUS) Size(c Checkpoint) int {
	return ord.String.Size(c.Stage) + ord.String.Size(c.LastSubmission) +
		timeMUS.Size(c.UpdatedAt)
}

func (checkpointMUS) Skip(bs []byte) (n int, err error) {
	var n1 int
	for i := 0; i < 2; i++ {
		n1, err = ord.String.Skip(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	n1, err = timeMUS.Skip(bs[n:])
	n += n1
	return
}
