// Package dwarfconst holds the DWARF TAG/AT/FORM numeric constants this
// engine decodes against. Values are fixed by the DWARF specification (see
// DWARF5 §7.5.3-7.5.6); this is a hand-maintained table, not a library
// import, because every library in the example pack that exposes these
// constants does so behind a pre-decoded Entry/Reader abstraction that would
// hide the abbreviation/form decode this engine exists to implement (see
// DESIGN.md).
package dwarfconst

// Tag identifies the kind of a Debug Information Entry (DW_TAG_*).
type Tag uint16

const (
	TagNone                Tag = 0x00
	TagArrayType           Tag = 0x01
	TagClassType           Tag = 0x02
	TagEntryPoint          Tag = 0x03
	TagEnumerationType     Tag = 0x04
	TagFormalParameter     Tag = 0x05
	TagImportedDeclaration Tag = 0x08
	TagLabel               Tag = 0x0a
	TagLexDwarfBlock       Tag = 0x0b
	TagMember              Tag = 0x0d
	TagPointerType         Tag = 0x0f
	TagReferenceType       Tag = 0x10
	TagCompileUnit         Tag = 0x11
	TagStructType          Tag = 0x13
	TagSubroutineType      Tag = 0x15
	TagTypedef             Tag = 0x16
	TagUnionType           Tag = 0x17
	TagUnspecifiedParams   Tag = 0x18
	TagVariant             Tag = 0x19
	TagInheritance         Tag = 0x1c
	TagSubrangeType        Tag = 0x21
	TagBaseType            Tag = 0x24
	TagConstType           Tag = 0x26
	TagEnumerator          Tag = 0x28
	TagSubprogram          Tag = 0x2e
	TagVariable            Tag = 0x34
	TagVolatileType        Tag = 0x35
	TagRestrictType        Tag = 0x37
	TagNamespace           Tag = 0x39
	TagUnspecifiedType     Tag = 0x3b
	TagRvalueReferenceType Tag = 0x42
	TagAtomicType          Tag = 0x47
	TagCallSite            Tag = 0x48
	TagCallSiteParameter   Tag = 0x49
	TagSkeletonUnit        Tag = 0x4a
	TagImmutableType       Tag = 0x4b
)

var tagNames = map[Tag]string{
	TagNone:                "none",
	TagArrayType:           "array_type",
	TagClassType:           "class_type",
	TagEntryPoint:          "entry_point",
	TagEnumerationType:     "enumeration_type",
	TagFormalParameter:     "formal_parameter",
	TagImportedDeclaration: "imported_declaration",
	TagLabel:               "label",
	TagLexDwarfBlock:       "lexical_block",
	TagMember:              "member",
	TagPointerType:         "pointer_type",
	TagReferenceType:       "reference_type",
	TagCompileUnit:         "compile_unit",
	TagStructType:          "structure_type",
	TagSubroutineType:      "subroutine_type",
	TagTypedef:             "typedef",
	TagUnionType:           "union_type",
	TagUnspecifiedParams:   "unspecified_parameters",
	TagVariant:             "variant",
	TagInheritance:         "inheritance",
	TagSubrangeType:        "subrange_type",
	TagBaseType:            "base_type",
	TagConstType:           "const_type",
	TagEnumerator:          "enumerator",
	TagSubprogram:          "subprogram",
	TagVariable:            "variable",
	TagVolatileType:        "volatile_type",
	TagRestrictType:        "restrict_type",
	TagNamespace:           "namespace",
	TagUnspecifiedType:     "unspecified_type",
	TagRvalueReferenceType: "rvalue_reference_type",
	TagAtomicType:          "atomic_type",
	TagCallSite:            "call_site",
	TagCallSiteParameter:   "call_site_parameter",
	TagSkeletonUnit:        "skeleton_unit",
	TagImmutableType:       "immutable_type",
}

func (t Tag) String() string {
	if n, ok := tagNames[t]; ok {
		return n
	}
	return "unknown_tag"
}

// At identifies a DIE attribute name (DW_AT_*).
type At uint16

const (
	AtNone              At = 0x00
	AtSibling           At = 0x01
	AtLocation          At = 0x02
	AtName              At = 0x03
	AtByteSize          At = 0x0b
	AtBitSize           At = 0x0d
	AtStmtList          At = 0x10
	AtLowpc             At = 0x11
	AtHighpc             At = 0x12
	AtLanguage           At = 0x13
	AtDiscr              At = 0x15
	AtDiscrValue         At = 0x16
	AtVisibility         At = 0x17
	AtImport             At = 0x18
	AtStringLength       At = 0x19
	AtCommonReference    At = 0x1a
	AtCompDir            At = 0x1b
	AtConstValue         At = 0x1c
	AtContainingType     At = 0x1d
	AtDefaultValue       At = 0x1e
	AtInline             At = 0x20
	AtIsOptional         At = 0x21
	AtLowerBound         At = 0x22
	AtProducer           At = 0x25
	AtPrototyped         At = 0x27
	AtReturnAddr         At = 0x2a
	AtStartScope         At = 0x2c
	AtBitStride          At = 0x2e
	AtUpperBound         At = 0x2f
	AtAbstractOrigin     At = 0x31
	AtAccessibility      At = 0x32
	AtArtificial         At = 0x34
	AtBaseTypes          At = 0x35
	AtCallingConvention  At = 0x36
	AtCount              At = 0x37
	AtDataMemberLoc      At = 0x38
	AtDeclColumn         At = 0x39
	AtDeclFile           At = 0x3a
	AtDeclLine           At = 0x3b
	AtDeclaration        At = 0x3c
	AtDiscrList          At = 0x3d
	AtEncoding           At = 0x3e
	AtExternal           At = 0x3f
	AtFrameBase          At = 0x40
	AtFriend             At = 0x41
	AtMacroInfo          At = 0x43
	AtNamelistItem       At = 0x44
	AtPriority           At = 0x45
	AtSegment            At = 0x46
	AtSpecification      At = 0x47
	AtStaticLink         At = 0x48
	AtType               At = 0x49
	AtUseLocation        At = 0x4a
	AtVarParam           At = 0x4b
	AtVirtuality         At = 0x4c
	AtVtableElemLoc      At = 0x4d
	AtAllocated          At = 0x4e
	AtAssociated         At = 0x4f
	AtDataLocation       At = 0x50
	AtByteStride         At = 0x51
	AtEntryPc            At = 0x52
	AtUseUTF8            At = 0x53
	AtExtension          At = 0x54
	AtRanges             At = 0x55
	AtTrampoline         At = 0x56
	AtCallColumn         At = 0x57
	AtCallFile           At = 0x58
	AtCallLine           At = 0x59
	AtDescription        At = 0x5a
	AtBinaryScale        At = 0x5b
	AtMutable            At = 0x61
	AtThreadsScaled      At = 0x62
	AtExplicit           At = 0x63
	AtObjectPointer      At = 0x64
	AtEndianity          At = 0x65
	AtElemental          At = 0x66
	AtPure               At = 0x67
	AtRecursive          At = 0x68
	AtSignature          At = 0x69
	AtMainSubprogram     At = 0x6a
	AtDataBitOffset      At = 0x6b
	AtConstExpr          At = 0x6c
	AtEnumClass          At = 0x6d
	AtLinkageName        At = 0x6e
	AtStrOffsetsBase     At = 0x72
	AtAddrBase           At = 0x73
	AtRnglistsBase       At = 0x74
	AtLoclistsBase       At = 0x8c
	AtExportSymbols      At = 0x89
	AtDeleted            At = 0x8a
	AtDefaulted          At = 0x8b
	AtNoreturn           At = 0x87

	// Apple vendor extensions (0x3fe0-0x3ff9 range), present in
	// original_source's curated nonfatal table and routinely emitted by
	// clang for Objective-C/Swift metadata.
	AtAppleOptimized         At = 0x3fe1
	AtAppleFlags             At = 0x3fe2
	AtAppleMajorRuntimeVers  At = 0x3fe5
	AtAppleRuntimeClass      At = 0x3fe6
	AtAppleBlock             At = 0x3fe4
	AtAppleObjcCompleteType  At = 0x3fec
	AtAppleObjDirect         At = 0x3fee
	AtAppleSdk               At = 0x3fef
)

var atNames = map[At]string{
	AtNone:             "none",
	AtSibling:          "sibling",
	AtLocation:         "location",
	AtName:             "name",
	AtByteSize:         "byte_size",
	AtBitSize:          "bit_size",
	AtStmtList:         "stmt_list",
	AtLowpc:            "low_pc",
	AtHighpc:           "high_pc",
	AtLanguage:         "language",
	AtDiscr:            "discr",
	AtDiscrValue:       "discr_value",
	AtVisibility:       "visibility",
	AtImport:           "import",
	AtStringLength:     "string_length",
	AtCommonReference:  "common_reference",
	AtCompDir:          "comp_dir",
	AtConstValue:       "const_value",
	AtContainingType:   "containing_type",
	AtDefaultValue:     "default_value",
	AtInline:           "inline",
	AtIsOptional:       "is_optional",
	AtLowerBound:       "lower_bound",
	AtProducer:         "producer",
	AtPrototyped:       "prototyped",
	AtReturnAddr:       "return_addr",
	AtStartScope:       "start_scope",
	AtBitStride:        "bit_stride",
	AtUpperBound:       "upper_bound",
	AtAbstractOrigin:   "abstract_origin",
	AtAccessibility:    "accessibility",
	AtArtificial:       "artificial",
	AtBaseTypes:        "base_types",
	AtCallingConvention: "calling_convention",
	AtCount:             "count",
	AtDataMemberLoc:     "data_member_location",
	AtDeclColumn:        "decl_column",
	AtDeclFile:          "decl_file",
	AtDeclLine:          "decl_line",
	AtDeclaration:       "declaration",
	AtDiscrList:         "discr_list",
	AtEncoding:          "encoding",
	AtExternal:          "external",
	AtFrameBase:         "frame_base",
	AtFriend:            "friend",
	AtMacroInfo:         "macro_info",
	AtNamelistItem:      "namelist_item",
	AtPriority:          "priority",
	AtSegment:           "segment",
	AtSpecification:     "specification",
	AtStaticLink:        "static_link",
	AtType:              "type",
	AtUseLocation:       "use_location",
	AtVarParam:          "variable_parameter",
	AtVirtuality:        "virtuality",
	AtVtableElemLoc:     "vtable_elem_location",
	AtAllocated:         "allocated",
	AtAssociated:        "associated",
	AtDataLocation:      "data_location",
	AtByteStride:        "byte_stride",
	AtEntryPc:           "entry_pc",
	AtUseUTF8:           "use_UTF8",
	AtExtension:         "extension",
	AtRanges:            "ranges",
	AtTrampoline:        "trampoline",
	AtCallColumn:        "call_column",
	AtCallFile:          "call_file",
	AtCallLine:          "call_line",
	AtDescription:       "description",
	AtBinaryScale:       "binary_scale",
	AtMutable:           "mutable",
	AtThreadsScaled:     "threads_scaled",
	AtExplicit:          "explicit",
	AtObjectPointer:     "object_pointer",
	AtEndianity:         "endianity",
	AtElemental:         "elemental",
	AtPure:              "pure",
	AtRecursive:         "recursive",
	AtSignature:         "signature",
	AtMainSubprogram:    "main_subprogram",
	AtDataBitOffset:     "data_bit_offset",
	AtConstExpr:         "const_expr",
	AtEnumClass:         "enum_class",
	AtLinkageName:       "linkage_name",
	AtStrOffsetsBase:    "str_offsets_base",
	AtAddrBase:          "addr_base",
	AtRnglistsBase:      "rnglists_base",
	AtLoclistsBase:      "loclists_base",
	AtExportSymbols:     "export_symbols",
	AtDeleted:           "deleted",
	AtDefaulted:         "defaulted",
	AtNoreturn:          "noreturn",

	AtAppleOptimized:        "APPLE_optimized",
	AtAppleFlags:            "APPLE_flags",
	AtAppleMajorRuntimeVers: "APPLE_major_runtime_vers",
	AtAppleRuntimeClass:     "APPLE_runtime_class",
	AtAppleBlock:            "APPLE_block",
	AtAppleObjcCompleteType: "APPLE_objc_complete_type",
	AtAppleObjDirect:        "APPLE_objc_direct",
	AtAppleSdk:              "APPLE_sdk",
}

func (a At) String() string {
	if n, ok := atNames[a]; ok {
		return n
	}
	return "unknown_at"
}

// Form identifies how an attribute's value is encoded (DW_FORM_*).
type Form uint16

const (
	FormNone          Form = 0x00
	FormAddr          Form = 0x01
	FormBlock2        Form = 0x03
	FormBlock4        Form = 0x04
	FormData2         Form = 0x05
	FormData4         Form = 0x06
	FormData8         Form = 0x07
	FormString        Form = 0x08
	FormBlock         Form = 0x09
	FormBlock1        Form = 0x0a
	FormData1         Form = 0x0b
	FormFlag          Form = 0x0c
	FormSdata         Form = 0x0d
	FormStrp          Form = 0x0e
	FormUdata         Form = 0x0f
	FormRefAddr       Form = 0x10
	FormRef1          Form = 0x11
	FormRef2          Form = 0x12
	FormRef4          Form = 0x13
	FormRef8          Form = 0x14
	FormRefUdata      Form = 0x15
	FormIndirect      Form = 0x16
	FormSecOffset     Form = 0x17
	FormExprloc       Form = 0x18
	FormFlagPresent   Form = 0x19
	FormStrx          Form = 0x1a
	FormAddrx         Form = 0x1b
	FormRefSup4       Form = 0x1c
	FormStrpSup       Form = 0x1d
	FormData16        Form = 0x1e
	FormLineStrp      Form = 0x1f
	FormRefSig8       Form = 0x20
	FormImplicitConst Form = 0x21
	FormLoclistx      Form = 0x22
	FormRnglistx      Form = 0x23
	FormRefSup8       Form = 0x24
	FormStrx1         Form = 0x25
	FormStrx2         Form = 0x26
	FormStrx3         Form = 0x27
	FormStrx4         Form = 0x28
	FormAddrx1        Form = 0x29
	FormAddrx2        Form = 0x2a
	FormAddrx3        Form = 0x2b
	FormAddrx4        Form = 0x2c
)

var formNames = map[Form]string{
	FormAddr:          "addr",
	FormBlock2:        "block2",
	FormBlock4:        "block4",
	FormData2:         "data2",
	FormData4:         "data4",
	FormData8:         "data8",
	FormString:        "string",
	FormBlock:         "block",
	FormBlock1:        "block1",
	FormData1:         "data1",
	FormFlag:          "flag",
	FormSdata:         "sdata",
	FormStrp:          "strp",
	FormUdata:         "udata",
	FormRefAddr:       "ref_addr",
	FormRef1:          "ref1",
	FormRef2:          "ref2",
	FormRef4:          "ref4",
	FormRef8:          "ref8",
	FormRefUdata:      "ref_udata",
	FormIndirect:      "indirect",
	FormSecOffset:     "sec_offset",
	FormExprloc:       "exprloc",
	FormFlagPresent:   "flag_present",
	FormStrx:          "strx",
	FormAddrx:         "addrx",
	FormRefSup4:       "ref_sup4",
	FormStrpSup:       "strp_sup",
	FormData16:        "data16",
	FormLineStrp:      "line_strp",
	FormRefSig8:       "ref_sig8",
	FormImplicitConst: "implicit_const",
	FormLoclistx:      "loclistx",
	FormRnglistx:      "rnglistx",
	FormRefSup8:       "ref_sup8",
	FormStrx1:         "strx1",
	FormStrx2:         "strx2",
	FormStrx3:         "strx3",
	FormStrx4:         "strx4",
	FormAddrx1:        "addrx1",
	FormAddrx2:        "addrx2",
	FormAddrx3:        "addrx3",
	FormAddrx4:        "addrx4",
}

func (f Form) String() string {
	if n, ok := formNames[f]; ok {
		return n
	}
	return "unknown_form"
}

// IsReference reports whether form is one of the "reference" forms
// enumerated in SPEC_FULL.md §4.D. All of them except DW_FORM_ref_sig8
// decode to an offset into some __debug_info section (local or remote CU);
// ref_sig8 carries a type-unit signature instead.
func (f Form) IsReference() bool {
	switch f {
	case FormRef1, FormRef2, FormRef4, FormRef8, FormRefUdata, FormRefAddr, FormRefSig8:
		return true
	default:
		return false
	}
}
