package symbols

// ConversionKind classifies a conversion between two types
type ConversionKind int

const (
	ConversionNone ConversionKind = iota
	ConversionIdentity
	ConversionImplicitNumeric
	ConversionImplicitConstant
	ConversionImplicitReference
	ConversionBoxing
	ConversionNullLiteral
	ConversionExplicitNumeric
	ConversionExplicitReference
	ConversionUnboxing
	ConversionExplicitEnum
)

func (k ConversionKind) String() string {
	switch k {
	case ConversionIdentity:
		return "identity"
	case ConversionImplicitNumeric:
		return "implicit numeric"
	case ConversionImplicitConstant:
		return "implicit constant"
	case ConversionImplicitReference:
		return "implicit reference"
	case ConversionBoxing:
		return "boxing"
	case ConversionNullLiteral:
		return "null literal"
	case ConversionExplicitNumeric:
		return "explicit numeric"
	case ConversionExplicitReference:
		return "explicit reference"
	case ConversionUnboxing:
		return "unboxing"
	case ConversionExplicitEnum:
		return "explicit enumeration"
	}
	return "none"
}

// IsImplicit reports conversions that need no cast
func (k ConversionKind) IsImplicit() bool {
	switch k {
	case ConversionIdentity, ConversionImplicitNumeric, ConversionImplicitConstant,
		ConversionImplicitReference, ConversionBoxing, ConversionNullLiteral:
		return true
	}
	return false
}

// implicitNumeric lists the implicit numeric conversion targets per source
var implicitNumeric = map[SpecialType][]SpecialType{
	SpecialSByte:  {SpecialInt16, SpecialInt32, SpecialInt64, SpecialSingle, SpecialDouble, SpecialDecimal},
	SpecialByte:   {SpecialInt16, SpecialUInt16, SpecialInt32, SpecialUInt32, SpecialInt64, SpecialUInt64, SpecialSingle, SpecialDouble, SpecialDecimal},
	SpecialInt16:  {SpecialInt32, SpecialInt64, SpecialSingle, SpecialDouble, SpecialDecimal},
	SpecialUInt16: {SpecialInt32, SpecialUInt32, SpecialInt64, SpecialUInt64, SpecialSingle, SpecialDouble, SpecialDecimal},
	SpecialInt32:  {SpecialInt64, SpecialSingle, SpecialDouble, SpecialDecimal},
	SpecialUInt32: {SpecialInt64, SpecialUInt64, SpecialSingle, SpecialDouble, SpecialDecimal},
	SpecialInt64:  {SpecialSingle, SpecialDouble, SpecialDecimal},
	SpecialUInt64: {SpecialSingle, SpecialDouble, SpecialDecimal},
	SpecialChar:   {SpecialUInt16, SpecialInt32, SpecialUInt32, SpecialInt64, SpecialUInt64, SpecialSingle, SpecialDouble, SpecialDecimal},
	SpecialSingle: {SpecialDouble},
}

// IsImplicitNumeric reports an implicit numeric conversion between specials
func IsImplicitNumeric(from, to SpecialType) bool {
	for _, t := range implicitNumeric[from] {
		if t == to {
			return true
		}
	}
	return false
}

// ClassifyConversion classifies the built-in conversion from one type to
// another without regard to constant values. Error types convert by
// identity so lookup failures do not cascade.
func ClassifyConversion(from, to Type) ConversionKind {
	if from == nil || to == nil {
		return ConversionNone
	}
	if IsErrorType(from) || IsErrorType(to) {
		return ConversionIdentity
	}
	if Identical(from, to) {
		return ConversionIdentity
	}
	if IsImplicitNumeric(SpecialOf(from), SpecialOf(to)) {
		return ConversionImplicitNumeric
	}
	if k := classifyImplicitReference(from, to); k != ConversionNone {
		return k
	}
	return ConversionNone
}

// ClassifyExplicit classifies a cast, falling back from implicit conversions
func ClassifyExplicit(from, to Type) ConversionKind {
	if k := ClassifyConversion(from, to); k != ConversionNone {
		return k
	}
	fs, ts := SpecialOf(EnumUnderlying(from)), SpecialOf(EnumUnderlying(to))
	fromNumeric := fs.IsNumeric() || fs == SpecialChar
	toNumeric := ts.IsNumeric() || ts == SpecialChar
	if fromNumeric && toNumeric {
		if isEnum(from) || isEnum(to) {
			return ConversionExplicitEnum
		}
		return ConversionExplicitNumeric
	}
	if IsReferenceType(from) && IsReferenceType(to) && classifyImplicitReference(to, from) != ConversionNone {
		return ConversionExplicitReference
	}
	if n, ok := to.(*NamedType); ok && n.IsValueType() && classifyImplicitReference(to, from) == ConversionBoxing {
		return ConversionUnboxing
	}
	return ConversionNone
}

func isEnum(t Type) bool {
	n, ok := t.(*NamedType)
	return ok && n.IsEnum()
}

func classifyImplicitReference(from, to Type) ConversionKind {
	toNamed, toIsNamed := to.(*NamedType)

	switch f := from.(type) {
	case *ArrayType:
		if toIsNamed && (toNamed.Special == SpecialObject || toNamed.Special == SpecialArray) {
			return ConversionImplicitReference
		}
		if t, ok := to.(*ArrayType); ok && t.Rank == f.Rank {
			if IsReferenceType(f.Elem) && classifyImplicitReference(f.Elem, t.Elem) == ConversionImplicitReference {
				return ConversionImplicitReference
			}
		}
	case *NamedType:
		if !toIsNamed {
			return ConversionNone
		}
		if f.IsValueType() {
			switch toNamed.Special {
			case SpecialObject, SpecialValueType:
				return ConversionBoxing
			case SpecialEnum:
				if f.IsEnum() {
					return ConversionBoxing
				}
			}
			return ConversionNone
		}
		if toNamed.Special == SpecialObject {
			return ConversionImplicitReference
		}
		if toNamed.Kind == KindClass && f.Kind == KindClass && DerivesFrom(f.Base, toNamed) {
			return ConversionImplicitReference
		}
	}
	return ConversionNone
}
