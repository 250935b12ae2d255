package fonts

// Metrics of the standard Helvetica faces, in AFM form. Courier is
// monospaced and generated by monospaceAFM.

const helveticaAFM = `StartFontMetrics 4.1
FontName Helvetica
FamilyName Helvetica
Weight Medium
ItalicAngle 0
IsFixedPitch false
FontBBox -166 -225 1000 931
EncodingScheme AdobeStandardEncoding
CapHeight 718
XHeight 523
Ascender 718
Descender -207
StdVW 88
StartCharMetrics 125
C 32 ; WX 278 ; N space ;
C 33 ; WX 278 ; N exclam ;
C 34 ; WX 355 ; N quotedbl ;
C 35 ; WX 556 ; N numbersign ;
C 36 ; WX 556 ; N dollar ;
C 37 ; WX 889 ; N percent ;
C 38 ; WX 667 ; N ampersand ;
C 39 ; WX 222 ; N quoteright ;
C 40 ; WX 333 ; N parenleft ;
C 41 ; WX 333 ; N parenright ;
C 42 ; WX 389 ; N asterisk ;
C 43 ; WX 584 ; N plus ;
C 44 ; WX 278 ; N comma ;
C 45 ; WX 333 ; N hyphen ;
C 46 ; WX 278 ; N period ;
C 47 ; WX 278 ; N slash ;
C 48 ; WX 556 ; N zero ;
C 49 ; WX 556 ; N one ;
C 50 ; WX 556 ; N two ;
C 51 ; WX 556 ; N three ;
C 52 ; WX 556 ; N four ;
C 53 ; WX 556 ; N five ;
C 54 ; WX 556 ; N six ;
C 55 ; WX 556 ; N seven ;
C 56 ; WX 556 ; N eight ;
C 57 ; WX 556 ; N nine ;
C 58 ; WX 278 ; N colon ;
C 59 ; WX 278 ; N semicolon ;
C 60 ; WX 584 ; N less ;
C 61 ; WX 584 ; N equal ;
C 62 ; WX 584 ; N greater ;
C 63 ; WX 556 ; N question ;
C 64 ; WX 1015 ; N at ;
C 65 ; WX 667 ; N A ;
C 66 ; WX 667 ; N B ;
C 67 ; WX 722 ; N C ;
C 68 ; WX 722 ; N D ;
C 69 ; WX 667 ; N E ;
C 70 ; WX 611 ; N F ;
C 71 ; WX 778 ; N G ;
C 72 ; WX 722 ; N H ;
C 73 ; WX 278 ; N I ;
C 74 ; WX 500 ; N J ;
C 75 ; WX 667 ; N K ;
C 76 ; WX 556 ; N L ;
C 77 ; WX 833 ; N M ;
C 78 ; WX 722 ; N N ;
C 79 ; WX 778 ; N O ;
C 80 ; WX 667 ; N P ;
C 81 ; WX 778 ; N Q ;
C 82 ; WX 722 ; N R ;
C 83 ; WX 667 ; N S ;
C 84 ; WX 611 ; N T ;
C 85 ; WX 722 ; N U ;
C 86 ; WX 667 ; N V ;
C 87 ; WX 944 ; N W ;
C 88 ; WX 667 ; N X ;
C 89 ; WX 667 ; N Y ;
C 90 ; WX 611 ; N Z ;
C 91 ; WX 278 ; N bracketleft ;
C 92 ; WX 278 ; N backslash ;
C 93 ; WX 278 ; N bracketright ;
C 94 ; WX 469 ; N asciicircum ;
C 95 ; WX 556 ; N underscore ;
C 96 ; WX 222 ; N quoteleft ;
C 97 ; WX 556 ; N a ;
C 98 ; WX 556 ; N b ;
C 99 ; WX 500 ; N c ;
C 100 ; WX 556 ; N d ;
C 101 ; WX 556 ; N e ;
C 102 ; WX 278 ; N f ;
C 103 ; WX 556 ; N g ;
C 104 ; WX 556 ; N h ;
C 105 ; WX 222 ; N i ;
C 106 ; WX 222 ; N j ;
C 107 ; WX 500 ; N k ;
C 108 ; WX 222 ; N l ;
C 109 ; WX 833 ; N m ;
C 110 ; WX 556 ; N n ;
C 111 ; WX 556 ; N o ;
C 112 ; WX 556 ; N p ;
C 113 ; WX 556 ; N q ;
C 114 ; WX 333 ; N r ;
C 115 ; WX 500 ; N s ;
C 116 ; WX 278 ; N t ;
C 117 ; WX 556 ; N u ;
C 118 ; WX 500 ; N v ;
C 119 ; WX 722 ; N w ;
C 120 ; WX 500 ; N x ;
C 121 ; WX 500 ; N y ;
C 122 ; WX 500 ; N z ;
C 123 ; WX 334 ; N braceleft ;
C 124 ; WX 260 ; N bar ;
C 125 ; WX 334 ; N braceright ;
C 126 ; WX 584 ; N asciitilde ;
C 161 ; WX 333 ; N exclamdown ;
C 162 ; WX 556 ; N cent ;
C 163 ; WX 556 ; N sterling ;
C 165 ; WX 556 ; N yen ;
C 167 ; WX 556 ; N section ;
C 169 ; WX 191 ; N quotesingle ;
C 170 ; WX 333 ; N quotedblleft ;
C 177 ; WX 556 ; N endash ;
C 178 ; WX 556 ; N dagger ;
C 179 ; WX 556 ; N daggerdbl ;
C 183 ; WX 350 ; N bullet ;
C 186 ; WX 333 ; N quotedblright ;
C 188 ; WX 1000 ; N ellipsis ;
C 189 ; WX 1000 ; N perthousand ;
C 191 ; WX 611 ; N questiondown ;
C 193 ; WX 333 ; N grave ;
C 194 ; WX 333 ; N acute ;
C 200 ; WX 333 ; N dieresis ;
C 208 ; WX 1000 ; N emdash ;
C 225 ; WX 1000 ; N AE ;
C 241 ; WX 889 ; N ae ;
C 251 ; WX 611 ; N germandbls ;
C -1 ; WX 737 ; N copyright ;
C -1 ; WX 737 ; N registered ;
C -1 ; WX 400 ; N degree ;
C -1 ; WX 1000 ; N trademark ;
C -1 ; WX 556 ; N Euro ;
C -1 ; WX 584 ; N multiply ;
C -1 ; WX 584 ; N divide ;
C -1 ; WX 584 ; N plusminus ;
EndCharMetrics
StartKernData
StartKernPairs 61
KPX A T -120
KPX A V -70
KPX A W -50
KPX A Y -100
KPX A v -40
KPX A w -40
KPX A y -40
KPX F comma -150
KPX F period -150
KPX F A -80
KPX L T -110
KPX L V -110
KPX L W -70
KPX L Y -140
KPX L y -30
KPX P comma -180
KPX P period -180
KPX P A -120
KPX R T -30
KPX R V -50
KPX R W -30
KPX R Y -50
KPX T A -120
KPX T a -120
KPX T c -120
KPX T comma -120
KPX T e -120
KPX T hyphen -140
KPX T o -120
KPX T period -120
KPX T r -120
KPX T u -120
KPX T w -120
KPX T y -120
KPX V A -80
KPX V a -70
KPX V comma -125
KPX V e -80
KPX V o -80
KPX V period -125
KPX W A -50
KPX W a -40
KPX W comma -80
KPX W e -30
KPX W o -30
KPX W period -80
KPX Y A -110
KPX Y a -140
KPX Y comma -140
KPX Y e -140
KPX Y o -140
KPX Y period -140
KPX f quoteright 50
KPX r comma -50
KPX r period -50
KPX v comma -80
KPX v period -80
KPX w comma -60
KPX w period -60
KPX y comma -100
KPX y period -100
EndKernPairs
EndKernData
EndFontMetrics
`

const helveticaBoldAFM = `StartFontMetrics 4.1
FontName Helvetica-Bold
FamilyName Helvetica
Weight Bold
ItalicAngle 0
IsFixedPitch false
FontBBox -170 -228 1003 962
EncodingScheme AdobeStandardEncoding
CapHeight 718
XHeight 532
Ascender 718
Descender -207
StdVW 140
StartCharMetrics 125
C 32 ; WX 278 ; N space ;
C 33 ; WX 333 ; N exclam ;
C 34 ; WX 474 ; N quotedbl ;
C 35 ; WX 556 ; N numbersign ;
C 36 ; WX 556 ; N dollar ;
C 37 ; WX 889 ; N percent ;
C 38 ; WX 722 ; N ampersand ;
C 39 ; WX 278 ; N quoteright ;
C 40 ; WX 333 ; N parenleft ;
C 41 ; WX 333 ; N parenright ;
C 42 ; WX 389 ; N asterisk ;
C 43 ; WX 584 ; N plus ;
C 44 ; WX 278 ; N comma ;
C 45 ; WX 333 ; N hyphen ;
C 46 ; WX 278 ; N period ;
C 47 ; WX 278 ; N slash ;
C 48 ; WX 556 ; N zero ;
C 49 ; WX 556 ; N one ;
C 50 ; WX 556 ; N two ;
C 51 ; WX 556 ; N three ;
C 52 ; WX 556 ; N four ;
C 53 ; WX 556 ; N five ;
C 54 ; WX 556 ; N six ;
C 55 ; WX 556 ; N seven ;
C 56 ; WX 556 ; N eight ;
C 57 ; WX 556 ; N nine ;
C 58 ; WX 333 ; N colon ;
C 59 ; WX 333 ; N semicolon ;
C 60 ; WX 584 ; N less ;
C 61 ; WX 584 ; N equal ;
C 62 ; WX 584 ; N greater ;
C 63 ; WX 611 ; N question ;
C 64 ; WX 975 ; N at ;
C 65 ; WX 722 ; N A ;
C 66 ; WX 722 ; N B ;
C 67 ; WX 722 ; N C ;
C 68 ; WX 722 ; N D ;
C 69 ; WX 667 ; N E ;
C 70 ; WX 611 ; N F ;
C 71 ; WX 778 ; N G ;
C 72 ; WX 722 ; N H ;
C 73 ; WX 278 ; N I ;
C 74 ; WX 556 ; N J ;
C 75 ; WX 722 ; N K ;
C 76 ; WX 611 ; N L ;
C 77 ; WX 833 ; N M ;
C 78 ; WX 722 ; N N ;
C 79 ; WX 778 ; N O ;
C 80 ; WX 667 ; N P ;
C 81 ; WX 778 ; N Q ;
C 82 ; WX 722 ; N R ;
C 83 ; WX 667 ; N S ;
C 84 ; WX 611 ; N T ;
C 85 ; WX 722 ; N U ;
C 86 ; WX 667 ; N V ;
C 87 ; WX 944 ; N W ;
C 88 ; WX 667 ; N X ;
C 89 ; WX 667 ; N Y ;
C 90 ; WX 611 ; N Z ;
C 91 ; WX 333 ; N bracketleft ;
C 92 ; WX 278 ; N backslash ;
C 93 ; WX 333 ; N bracketright ;
C 94 ; WX 584 ; N asciicircum ;
C 95 ; WX 556 ; N underscore ;
C 96 ; WX 278 ; N quoteleft ;
C 97 ; WX 556 ; N a ;
C 98 ; WX 611 ; N b ;
C 99 ; WX 556 ; N c ;
C 100 ; WX 611 ; N d ;
C 101 ; WX 556 ; N e ;
C 102 ; WX 333 ; N f ;
C 103 ; WX 611 ; N g ;
C 104 ; WX 611 ; N h ;
C 105 ; WX 278 ; N i ;
C 106 ; WX 278 ; N j ;
C 107 ; WX 556 ; N k ;
C 108 ; WX 278 ; N l ;
C 109 ; WX 889 ; N m ;
C 110 ; WX 611 ; N n ;
C 111 ; WX 611 ; N o ;
C 112 ; WX 611 ; N p ;
C 113 ; WX 611 ; N q ;
C 114 ; WX 389 ; N r ;
C 115 ; WX 556 ; N s ;
C 116 ; WX 333 ; N t ;
C 117 ; WX 611 ; N u ;
C 118 ; WX 556 ; N v ;
C 119 ; WX 778 ; N w ;
C 120 ; WX 556 ; N x ;
C 121 ; WX 556 ; N y ;
C 122 ; WX 500 ; N z ;
C 123 ; WX 389 ; N braceleft ;
C 124 ; WX 280 ; N bar ;
C 125 ; WX 389 ; N braceright ;
C 126 ; WX 584 ; N asciitilde ;
C 161 ; WX 333 ; N exclamdown ;
C 162 ; WX 556 ; N cent ;
C 163 ; WX 556 ; N sterling ;
C 165 ; WX 556 ; N yen ;
C 167 ; WX 556 ; N section ;
C 169 ; WX 238 ; N quotesingle ;
C 170 ; WX 500 ; N quotedblleft ;
C 177 ; WX 556 ; N endash ;
C 178 ; WX 556 ; N dagger ;
C 179 ; WX 556 ; N daggerdbl ;
C 183 ; WX 350 ; N bullet ;
C 186 ; WX 500 ; N quotedblright ;
C 188 ; WX 1000 ; N ellipsis ;
C 189 ; WX 1000 ; N perthousand ;
C 191 ; WX 611 ; N questiondown ;
C 193 ; WX 333 ; N grave ;
C 194 ; WX 333 ; N acute ;
C 200 ; WX 333 ; N dieresis ;
C 208 ; WX 1000 ; N emdash ;
C 225 ; WX 1000 ; N AE ;
C 241 ; WX 889 ; N ae ;
C 251 ; WX 611 ; N germandbls ;
C -1 ; WX 737 ; N copyright ;
C -1 ; WX 737 ; N registered ;
C -1 ; WX 400 ; N degree ;
C -1 ; WX 1000 ; N trademark ;
C -1 ; WX 556 ; N Euro ;
C -1 ; WX 584 ; N multiply ;
C -1 ; WX 584 ; N divide ;
C -1 ; WX 584 ; N plusminus ;
EndCharMetrics
StartKernData
StartKernPairs 33
KPX A T -90
KPX A V -80
KPX A W -60
KPX A Y -110
KPX L T -90
KPX L V -110
KPX L W -80
KPX L Y -120
KPX P comma -120
KPX P period -120
KPX P A -100
KPX T A -90
KPX T a -80
KPX T comma -80
KPX T e -60
KPX T o -80
KPX T period -80
KPX V A -80
KPX V a -60
KPX V comma -120
KPX V e -50
KPX V o -90
KPX V period -120
KPX W A -60
KPX W a -40
KPX W e -35
KPX W o -60
KPX Y A -110
KPX Y a -90
KPX Y comma -100
KPX Y e -80
KPX Y o -100
KPX Y period -100
EndKernPairs
EndKernData
EndFontMetrics
`
