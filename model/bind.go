package model

import (
	"encoding/xml"
	"strconv"

	"github.com/OpenPrinting/go-mfp/util/optional"
	"github.com/google/uuid"

	"github.com/andaru/escl/schema"
	"github.com/andaru/escl/units"
	"github.com/andaru/escl/xmlutil"
)

var (
	scan = xmlutil.Scan
	pwg  = xmlutil.PWG
)

func elem(name xml.Name, children ...*schema.Node) *schema.Node {
	return schema.Element(name, schema.Children(children...))
}

func text(name xml.Name, set func(string) error, opts ...schema.NodeOption) *schema.Node {
	return schema.Element(name, append(opts, schema.OnText(set))...)
}

func setEnum[E Enum[E]](p *OrRaw[E]) func(string) error {
	return func(s string) error {
		*p = DecodeOrRaw[E](s)
		return nil
	}
}

func appendEnum[E Enum[E]](p *[]OrRaw[E]) func(string) error {
	return func(s string) error {
		*p = append(*p, DecodeOrRaw[E](s))
		return nil
	}
}

func optEnum[E Enum[E]](p *optional.Val[OrRaw[E]]) func(string) error {
	return func(s string) error {
		*p = optional.New(DecodeOrRaw[E](s))
		return nil
	}
}

func optString(p *optional.Val[string]) func(string) error {
	return func(s string) error {
		*p = optional.New(s)
		return nil
	}
}

func setUint(p *uint) func(string) error {
	return schema.Parse(schema.ParseUint, func(v uint) { *p = v })
}

func optUint(p *optional.Val[uint]) func(string) error {
	return schema.Parse(schema.ParseUint, func(v uint) { *p = optional.New(v) })
}

func optInt(p *optional.Val[int]) func(string) error {
	return schema.Parse(schema.ParseInt, func(v int) { *p = optional.New(v) })
}

func optBool(p *optional.Val[bool]) func(string) error {
	return schema.Parse(schema.ParseBool, func(v bool) { *p = optional.New(v) })
}

func parseDeviceUnits(s string) (units.DeviceUnits, error) {
	v, err := schema.ParseUint32(s)
	return units.DeviceUnits(v), err
}

func setLength(p *units.DeviceUnits) func(string) error {
	return schema.Parse(parseDeviceUnits, func(v units.DeviceUnits) { *p = v })
}

func optLength(p *optional.Val[units.DeviceUnits]) func(string) error {
	return schema.Parse(parseDeviceUnits, func(v units.DeviceUnits) { *p = optional.New(v) })
}

func setUUID(p *uuid.UUID) func(string) error {
	return schema.Parse(uuid.Parse, func(v uuid.UUID) { *p = v })
}

func optUUID(p *optional.Val[uuid.UUID]) func(string) error {
	return schema.Parse(uuid.Parse, func(v uuid.UUID) { *p = optional.New(v) })
}

// encoder helpers, skipping absent optional values

func encodeString(e *schema.Encoder, name xml.Name, v optional.Val[string]) {
	if v != nil {
		e.Text(name, *v)
	}
}

func encodeUint(e *schema.Encoder, name xml.Name, v optional.Val[uint]) {
	if v != nil {
		e.Text(name, strconv.FormatUint(uint64(*v), 10))
	}
}

func encodeBool(e *schema.Encoder, name xml.Name, v optional.Val[bool]) {
	if v != nil {
		e.Text(name, strconv.FormatBool(*v))
	}
}

func encodeEnum[E ~string](e *schema.Encoder, name xml.Name, v optional.Val[OrRaw[E]]) {
	if v != nil {
		e.Text(name, (*v).String())
	}
}
