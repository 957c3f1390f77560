// internal/services/pptx_writer.go
package services

import (
	"archive/zip"
	"bytes"
	"fmt"
	"strings"

	"github.com/TKHatton/adaptive-curriculum-engine/internal/models"
)

// PPTX包的几何常量，单位EMU（1英寸=914400）
// 画布为16:9（13.333 x 7.5英寸）
const (
	emuPerInch = 914400

	pptxSlideCX = 12192000
	pptxSlideCY = 6858000

	pptxTitleX  = 457200 // 0.5in
	pptxTitleY  = 457200
	pptxTitleCX = pptxSlideCX - 2*457200
	pptxTitleCY = 685800

	pptxBodyX      = 640080 // 0.7in
	pptxBodyCX     = 10972800
	pptxBodyStartY = 1188720 // 1.3in
	pptxBlockCY    = 457200

	pptxTextAdvance  = 457200 // 0.5in
	pptxImageAdvance = 640080 // 0.7in
)

var pptxEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

func xmlEscape(s string) string {
	return pptxEscaper.Replace(s)
}

const pptxXMLHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

const pptxNS = `xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"`

// writePPTX 生成一个自包含的最小PPTX包
// 每张幻灯片一个文本标题加逐块排布的正文文本框，
// 讲者备注写入对应的notesSlide部件
func writePPTX(slides []models.Slide) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	add := func(name, content string) error {
		w, err := zw.Create(name)
		if err != nil {
			return err
		}
		_, err = w.Write([]byte(content))
		return err
	}

	parts := map[string]string{
		"[Content_Types].xml":                          pptxContentTypes(slides),
		"_rels/.rels":                                  pptxRootRels(),
		"ppt/presentation.xml":                         pptxPresentation(slides),
		"ppt/_rels/presentation.xml.rels":              pptxPresentationRels(slides),
		"ppt/theme/theme1.xml":                         pptxTheme(),
		"ppt/slideMasters/slideMaster1.xml":            pptxSlideMaster(),
		"ppt/slideMasters/_rels/slideMaster1.xml.rels": pptxSlideMasterRels(),
		"ppt/slideLayouts/slideLayout1.xml":            pptxSlideLayout(),
		"ppt/slideLayouts/_rels/slideLayout1.xml.rels": pptxSlideLayoutRels(),
		"ppt/notesMasters/notesMaster1.xml":            pptxNotesMaster(),
		"ppt/notesMasters/_rels/notesMaster1.xml.rels": pptxNotesMasterRels(),
	}

	// map迭代顺序不定，固定部件写出顺序保持包的确定性
	order := []string{
		"[Content_Types].xml",
		"_rels/.rels",
		"ppt/presentation.xml",
		"ppt/_rels/presentation.xml.rels",
		"ppt/theme/theme1.xml",
		"ppt/slideMasters/slideMaster1.xml",
		"ppt/slideMasters/_rels/slideMaster1.xml.rels",
		"ppt/slideLayouts/slideLayout1.xml",
		"ppt/slideLayouts/_rels/slideLayout1.xml.rels",
		"ppt/notesMasters/notesMaster1.xml",
		"ppt/notesMasters/_rels/notesMaster1.xml.rels",
	}
	for _, name := range order {
		if err := add(name, parts[name]); err != nil {
			return nil, err
		}
	}

	for i, slide := range slides {
		n := i + 1
		if err := add(fmt.Sprintf("ppt/slides/slide%d.xml", n), pptxSlide(slide, n)); err != nil {
			return nil, err
		}
		if err := add(fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", n), pptxSlideRels(slide, n)); err != nil {
			return nil, err
		}
		if slideHasNotes(slide) {
			if err := add(fmt.Sprintf("ppt/notesSlides/notesSlide%d.xml", n), pptxNotesSlide(slide)); err != nil {
				return nil, err
			}
			if err := add(fmt.Sprintf("ppt/notesSlides/_rels/notesSlide%d.xml.rels", n), pptxNotesSlideRels(n)); err != nil {
				return nil, err
			}
		}
	}

	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func slideHasNotes(slide models.Slide) bool {
	return strings.TrimSpace(slide.SpeakerNotes) != ""
}

func pptxContentTypes(slides []models.Slide) string {
	var b strings.Builder
	b.WriteString(pptxXMLHeader)
	b.WriteString(`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">`)
	b.WriteString(`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>`)
	b.WriteString(`<Default Extension="xml" ContentType="application/xml"/>`)
	b.WriteString(`<Override PartName="/ppt/presentation.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"/>`)
	b.WriteString(`<Override PartName="/ppt/theme/theme1.xml" ContentType="application/vnd.openxmlformats-officedocument.theme+xml"/>`)
	b.WriteString(`<Override PartName="/ppt/slideMasters/slideMaster1.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slideMaster+xml"/>`)
	b.WriteString(`<Override PartName="/ppt/slideLayouts/slideLayout1.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slideLayout+xml"/>`)
	b.WriteString(`<Override PartName="/ppt/notesMasters/notesMaster1.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.notesMaster+xml"/>`)
	for i, slide := range slides {
		n := i + 1
		fmt.Fprintf(&b, `<Override PartName="/ppt/slides/slide%d.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slide+xml"/>`, n)
		if slideHasNotes(slide) {
			fmt.Fprintf(&b, `<Override PartName="/ppt/notesSlides/notesSlide%d.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.notesSlide+xml"/>`, n)
		}
	}
	b.WriteString(`</Types>`)
	return b.String()
}

func pptxRootRels() string {
	return pptxXMLHeader +
		`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
		`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="ppt/presentation.xml"/>` +
		`</Relationships>`
}

func pptxPresentation(slides []models.Slide) string {
	var b strings.Builder
	b.WriteString(pptxXMLHeader)
	fmt.Fprintf(&b, `<p:presentation %s>`, pptxNS)
	b.WriteString(`<p:sldMasterIdLst><p:sldMasterId id="2147483648" r:id="rId1"/></p:sldMasterIdLst>`)
	fmt.Fprintf(&b, `<p:notesMasterIdLst><p:notesMasterId r:id="rId%d"/></p:notesMasterIdLst>`, len(slides)+2)
	b.WriteString(`<p:sldIdLst>`)
	for i := range slides {
		fmt.Fprintf(&b, `<p:sldId id="%d" r:id="rId%d"/>`, 256+i, i+2)
	}
	b.WriteString(`</p:sldIdLst>`)
	fmt.Fprintf(&b, `<p:sldSz cx="%d" cy="%d"/>`, pptxSlideCX, pptxSlideCY)
	b.WriteString(`<p:notesSz cx="6858000" cy="9144000"/>`)
	b.WriteString(`</p:presentation>`)
	return b.String()
}

func pptxPresentationRels(slides []models.Slide) string {
	var b strings.Builder
	b.WriteString(pptxXMLHeader)
	b.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	b.WriteString(`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideMaster" Target="slideMasters/slideMaster1.xml"/>`)
	for i := range slides {
		fmt.Fprintf(&b, `<Relationship Id="rId%d" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide" Target="slides/slide%d.xml"/>`, i+2, i+1)
	}
	fmt.Fprintf(&b, `<Relationship Id="rId%d" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/notesMaster" Target="notesMasters/notesMaster1.xml"/>`, len(slides)+2)
	b.WriteString(`</Relationships>`)
	return b.String()
}

// pptxTheme 最小主题部件，母版的强制依赖
func pptxTheme() string {
	return pptxXMLHeader +
		`<a:theme xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" name="Default">` +
		`<a:themeElements>` +
		`<a:clrScheme name="Default">` +
		`<a:dk1><a:srgbClr val="333333"/></a:dk1><a:lt1><a:srgbClr val="FFFFFF"/></a:lt1>` +
		`<a:dk2><a:srgbClr val="666666"/></a:dk2><a:lt2><a:srgbClr val="F5F5F5"/></a:lt2>` +
		`<a:accent1><a:srgbClr val="4472C4"/></a:accent1><a:accent2><a:srgbClr val="ED7D31"/></a:accent2>` +
		`<a:accent3><a:srgbClr val="A5A5A5"/></a:accent3><a:accent4><a:srgbClr val="FFC000"/></a:accent4>` +
		`<a:accent5><a:srgbClr val="5B9BD5"/></a:accent5><a:accent6><a:srgbClr val="70AD47"/></a:accent6>` +
		`<a:hlink><a:srgbClr val="0563C1"/></a:hlink><a:folHlink><a:srgbClr val="954F72"/></a:folHlink>` +
		`</a:clrScheme>` +
		`<a:fontScheme name="Default">` +
		`<a:majorFont><a:latin typeface="Calibri"/><a:ea typeface=""/><a:cs typeface=""/></a:majorFont>` +
		`<a:minorFont><a:latin typeface="Calibri"/><a:ea typeface=""/><a:cs typeface=""/></a:minorFont>` +
		`</a:fontScheme>` +
		`<a:fmtScheme name="Default">` +
		`<a:fillStyleLst><a:solidFill><a:schemeClr val="phClr"/></a:solidFill><a:solidFill><a:schemeClr val="phClr"/></a:solidFill><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:fillStyleLst>` +
		`<a:lnStyleLst><a:ln w="9525"><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln><a:ln w="19050"><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln><a:ln w="28575"><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln></a:lnStyleLst>` +
		`<a:effectStyleLst><a:effectStyle><a:effectLst/></a:effectStyle><a:effectStyle><a:effectLst/></a:effectStyle><a:effectStyle><a:effectLst/></a:effectStyle></a:effectStyleLst>` +
		`<a:bgFillStyleLst><a:solidFill><a:schemeClr val="phClr"/></a:solidFill><a:solidFill><a:schemeClr val="phClr"/></a:solidFill><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:bgFillStyleLst>` +
		`</a:fmtScheme>` +
		`</a:themeElements>` +
		`</a:theme>`
}

// pptxSlideMaster 白底母版，标题下方0.5英寸处画一条贯穿的细分隔线
func pptxSlideMaster() string {
	var b strings.Builder
	b.WriteString(pptxXMLHeader)
	fmt.Fprintf(&b, `<p:sldMaster %s>`, pptxNS)
	b.WriteString(`<p:cSld>`)
	b.WriteString(`<p:bg><p:bgPr><a:solidFill><a:srgbClr val="FFFFFF"/></a:solidFill><a:effectLst/></p:bgPr></p:bg>`)
	b.WriteString(`<p:spTree>`)
	b.WriteString(`<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>`)
	b.WriteString(`<p:grpSpPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="0" cy="0"/><a:chOff x="0" y="0"/><a:chExt cx="0" cy="0"/></a:xfrm></p:grpSpPr>`)
	b.WriteString(`<p:cxnSp><p:nvCxnSpPr><p:cNvPr id="2" name="Rule"/><p:cNvCxnSpPr/><p:nvPr/></p:nvCxnSpPr>`)
	fmt.Fprintf(&b, `<p:spPr><a:xfrm><a:off x="0" y="%d"/><a:ext cx="%d" cy="0"/></a:xfrm><a:prstGeom prst="line"><a:avLst/></a:prstGeom><a:ln w="9525"><a:solidFill><a:srgbClr val="CCCCCC"/></a:solidFill></a:ln></p:spPr></p:cxnSp>`, emuPerInch/2, pptxSlideCX)
	b.WriteString(`</p:spTree>`)
	b.WriteString(`</p:cSld>`)
	b.WriteString(`<p:clrMap bg1="lt1" tx1="dk1" bg2="lt2" tx2="dk2" accent1="accent1" accent2="accent2" accent3="accent3" accent4="accent4" accent5="accent5" accent6="accent6" hlink="hlink" folHlink="folHlink"/>`)
	b.WriteString(`<p:sldLayoutIdLst><p:sldLayoutId id="2147483649" r:id="rId1"/></p:sldLayoutIdLst>`)
	b.WriteString(`</p:sldMaster>`)
	return b.String()
}

func pptxSlideMasterRels() string {
	return pptxXMLHeader +
		`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
		`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout" Target="../slideLayouts/slideLayout1.xml"/>` +
		`<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/theme" Target="../theme/theme1.xml"/>` +
		`</Relationships>`
}

func pptxSlideLayout() string {
	return pptxXMLHeader +
		fmt.Sprintf(`<p:sldLayout %s type="blank" preserve="1">`, pptxNS) +
		`<p:cSld name="Blank"><p:spTree>` +
		`<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>` +
		`<p:grpSpPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="0" cy="0"/><a:chOff x="0" y="0"/><a:chExt cx="0" cy="0"/></a:xfrm></p:grpSpPr>` +
		`</p:spTree></p:cSld>` +
		`<p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr>` +
		`</p:sldLayout>`
}

func pptxSlideLayoutRels() string {
	return pptxXMLHeader +
		`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
		`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideMaster" Target="../slideMasters/slideMaster1.xml"/>` +
		`</Relationships>`
}

func pptxNotesMaster() string {
	return pptxXMLHeader +
		fmt.Sprintf(`<p:notesMaster %s>`, pptxNS) +
		`<p:cSld><p:spTree>` +
		`<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>` +
		`<p:grpSpPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="0" cy="0"/><a:chOff x="0" y="0"/><a:chExt cx="0" cy="0"/></a:xfrm></p:grpSpPr>` +
		`</p:spTree></p:cSld>` +
		`<p:clrMap bg1="lt1" tx1="dk1" bg2="lt2" tx2="dk2" accent1="accent1" accent2="accent2" accent3="accent3" accent4="accent4" accent5="accent5" accent6="accent6" hlink="hlink" folHlink="folHlink"/>` +
		`</p:notesMaster>`
}

func pptxNotesMasterRels() string {
	return pptxXMLHeader +
		`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
		`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/theme" Target="../theme/theme1.xml"/>` +
		`</Relationships>`
}

// pptxTextBox 固定位置的单段文本框
func pptxTextBox(id int, name string, x, y, cx, cy, sizeHundredths int, bold, italic bool, color, text string) string {
	var style strings.Builder
	if bold {
		style.WriteString(` b="1"`)
	}
	if italic {
		style.WriteString(` i="1"`)
	}
	return fmt.Sprintf(
		`<p:sp><p:nvSpPr><p:cNvPr id="%d" name="%s"/><p:cNvSpPr txBox="1"/><p:nvPr/></p:nvSpPr>`+
			`<p:spPr><a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm><a:prstGeom prst="rect"><a:avLst/></a:prstGeom></p:spPr>`+
			`<p:txBody><a:bodyPr wrap="square"/><a:lstStyle/><a:p><a:r><a:rPr lang="en-US" sz="%d"%s><a:solidFill><a:srgbClr val="%s"/></a:solidFill></a:rPr><a:t>%s</a:t></a:r></a:p></p:txBody></p:sp>`,
		id, xmlEscape(name), x, y, cx, cy, sizeHundredths, style.String(), color, xmlEscape(text))
}

// pptxSlide 单张幻灯片部件
// 标题24pt加粗，文本块18pt带项目符号前进0.5英寸，
// 图片占位块16pt斜体前进0.7英寸，右下角页码
func pptxSlide(slide models.Slide, number int) string {
	var b strings.Builder
	b.WriteString(pptxXMLHeader)
	fmt.Fprintf(&b, `<p:sld %s>`, pptxNS)
	b.WriteString(`<p:cSld><p:spTree>`)
	b.WriteString(`<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>`)
	b.WriteString(`<p:grpSpPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="0" cy="0"/><a:chOff x="0" y="0"/><a:chExt cx="0" cy="0"/></a:xfrm></p:grpSpPr>`)

	shapeID := 2
	b.WriteString(pptxTextBox(shapeID, "Title", pptxTitleX, pptxTitleY, pptxTitleCX, pptxTitleCY, 2400, true, false, "333333", slide.Title))
	shapeID++

	y := pptxBodyStartY
	for _, block := range slide.Content {
		switch block.Type {
		case models.BlockTypeImage:
			placeholder := "[Image: " + block.Description + "]"
			b.WriteString(pptxTextBox(shapeID, "Image Placeholder", pptxBodyX, y, pptxBodyCX, pptxBlockCY, 1600, false, true, "999999", placeholder))
			y += pptxImageAdvance
		default:
			b.WriteString(pptxTextBox(shapeID, "Content", pptxBodyX, y, pptxBodyCX, pptxBlockCY, 1800, false, false, "666666", "• "+block.Text))
			y += pptxTextAdvance
		}
		shapeID++
	}

	b.WriteString(pptxTextBox(shapeID, "Slide Number", pptxSlideCX-914400, pptxSlideCY-457200, 685800, 342900, 1200, false, false, "999999", fmt.Sprintf("%d", number)))

	b.WriteString(`</p:spTree></p:cSld>`)
	b.WriteString(`<p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr>`)
	b.WriteString(`</p:sld>`)
	return b.String()
}

func pptxSlideRels(slide models.Slide, number int) string {
	var b strings.Builder
	b.WriteString(pptxXMLHeader)
	b.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	b.WriteString(`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout" Target="../slideLayouts/slideLayout1.xml"/>`)
	if slideHasNotes(slide) {
		fmt.Fprintf(&b, `<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/notesSlide" Target="../notesSlides/notesSlide%d.xml"/>`, number)
	}
	b.WriteString(`</Relationships>`)
	return b.String()
}

func pptxNotesSlide(slide models.Slide) string {
	var b strings.Builder
	b.WriteString(pptxXMLHeader)
	fmt.Fprintf(&b, `<p:notes %s>`, pptxNS)
	b.WriteString(`<p:cSld><p:spTree>`)
	b.WriteString(`<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>`)
	b.WriteString(`<p:grpSpPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="0" cy="0"/><a:chOff x="0" y="0"/><a:chExt cx="0" cy="0"/></a:xfrm></p:grpSpPr>`)
	b.WriteString(pptxTextBox(2, "Notes", 457200, 457200, 5943600, 8229600, 1200, false, false, "333333", slide.SpeakerNotes))
	b.WriteString(`</p:spTree></p:cSld>`)
	b.WriteString(`<p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr>`)
	b.WriteString(`</p:notes>`)
	return b.String()
}

func pptxNotesSlideRels(number int) string {
	return pptxXMLHeader +
		`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
		`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/notesMaster" Target="../notesMasters/notesMaster1.xml"/>` +
		fmt.Sprintf(`<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide" Target="../slides/slide%d.xml"/>`, number) +
		`</Relationships>`
}
