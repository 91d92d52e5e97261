package layout

import (
	"fmt"
	"strings"
	"time"

	"github.com/dgallion1/bookbind/internal/wml"
)

const copyrightTemplate = `Copyright © %d %s

All rights reserved.

No part of this publication may be reproduced, distributed, or transmitted in any form or by any means, including photocopying, recording, or other electronic or mechanical methods, without the prior written permission of the publisher, except in the case of brief quotations embodied in critical reviews and certain other noncommercial uses permitted by copyright law.

%s

First Edition

Printed in the United States of America`

const dedicationText = "For someone special…"

// insertFrontMatter splices the title, copyright and dedication pages as
// one block immediately before the first existing body element. Fragments
// are built in reading order and inserted at index zero, so the final
// document order is title, copyright, dedication, original content.
func insertFrontMatter(doc *wml.Document, title, author string) {
	var fragments []wml.Block
	fragments = append(fragments, titlePage(title, author)...)
	fragments = append(fragments, copyrightPage(title, author)...)
	fragments = append(fragments, dedicationPage()...)
	doc.Body.InsertAt(0, fragments...)
}

func titlePage(title, author string) []wml.Block {
	var blocks []wml.Block
	for i := 0; i < 8; i++ {
		blocks = append(blocks, spacerParagraph())
	}
	blocks = append(blocks, textParagraph(title, func(rp *wml.RunProps) {
		rp.SetFont(fontFamily)
		rp.SetSize(wml.HalfPoints(titleSizePt))
		rp.SetBold(true)
	}))
	blocks = append(blocks, spacerParagraph(), spacerParagraph())
	blocks = append(blocks, textParagraph(author, func(rp *wml.RunProps) {
		rp.SetFont(fontFamily)
		rp.SetSize(wml.HalfPoints(authorSizePt))
	}))
	blocks = append(blocks, pageBreakParagraph())
	return blocks
}

func copyrightPage(title, author string) []wml.Block {
	var blocks []wml.Block
	for i := 0; i < 6; i++ {
		blocks = append(blocks, spacerParagraph())
	}
	text := fmt.Sprintf(copyrightTemplate, time.Now().Year(), author, title)
	for _, line := range strings.Split(text, "\n") {
		blocks = append(blocks, textParagraph(line, func(rp *wml.RunProps) {
			rp.SetFont(fontFamily)
			rp.SetSize(wml.HalfPoints(copyrightSizePt))
		}))
	}
	blocks = append(blocks, pageBreakParagraph())
	return blocks
}

func dedicationPage() []wml.Block {
	var blocks []wml.Block
	for i := 0; i < 10; i++ {
		blocks = append(blocks, spacerParagraph())
	}
	blocks = append(blocks, textParagraph(dedicationText, func(rp *wml.RunProps) {
		rp.SetFont(fontFamily)
		rp.SetSize(wml.HalfPoints(dedicationSizePt))
		rp.SetItalic(true)
	}))
	blocks = append(blocks, pageBreakParagraph())
	return blocks
}

func spacerParagraph() *wml.Paragraph {
	return &wml.Paragraph{}
}

// textParagraph builds a centered single-run paragraph; style configures
// the run's character formatting.
func textParagraph(text string, style func(*wml.RunProps)) *wml.Paragraph {
	p := &wml.Paragraph{}
	p.EnsureProps().Justify = "center"
	r := p.AddRun(&wml.Run{})
	if style != nil {
		style(r.EnsureProps())
	}
	r.Content = append(r.Content, &wml.Text{Value: text})
	return p
}

func pageBreakParagraph() *wml.Paragraph {
	p := &wml.Paragraph{}
	r := p.AddRun(&wml.Run{})
	r.Content = append(r.Content, &wml.Break{Type: "page"})
	return p
}
