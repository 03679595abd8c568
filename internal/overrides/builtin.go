package overrides

// builtin holds vetted translations for source strings the completion
// service repeatedly echoed or mistranslated.
var builtin = []Entry{
	{Source: "Esecuzione Test RTB come da lettera TRNIT-DT##", Target: "Execution of RTB Test as per letter TRNIT-DT##"},
	{Source: "порвано суфле 2тэд", Target: "Torn soufflé 2TED"},
	{Source: "ов не работает маш. цыганин", Target: "OV does not work machine. gypsy"},
	{Source: "выдавливание смазки буксы 3 кп справа", Target: "Squeezing grease from the axle box 3 KP on the right"},
	{Source: "сменит тормозной рукав каб1,бьет автомат эпт.", Target: "Change the brake hose CAB1, hits the EPT automatic"},
	{Source: "порван суфле 4тэд", Target: "Torn soufflé 4TED"},
	{Source: "выдавливания смазки 3 кп справа", Target: "Squeezing grease from the axle box 3 KP on the right"},
	{Source: "Veuillez procéder au graissage du coupleur automatique", Target: "Please proceed with greasing the automatic coupler"},
	{Source: "Boitier d'admission d'air a été remplacé suite a un écrou autobloquant qui était bloqué de l'interieur en devissant la vis sans es= t endommagé on a cannibalisé un boitier d'admission air du DMC2 au train T001 pour le poser au T021 du DMC1", Target: "The air intake box was replaced following a self-locking nut that was stuck inside while unscrewing the screw. We cannibalized an air intake box from DMC2 on train T001 to fit it on T021 of DMC1"},
	{Source: "49 Remettre en conformité le montant a l'intérieur du gangway 49 Put on conformity the vertical panel inside the gangway see picture 29 04 2024 06 49 05 Patricia Ashley (~468186) Brackets seat out to far d’ajuster in as far as possible un able to mate anymore d’ajustement", Target: "49 Put the vertical panel inside the gangway back in conformity, see picture 29 04 2024 06 49 05 Patricia Ashley (~468186) Brackets seat out too far, adjust in as far as possible, unable to mate anymore"},
	{Source: "Procédez a la lubrification des coupleurs", Target: "Proceed with the lubrication of the couplers"},
	{Source: "Software update", Target: "Software update"},
	{Source: "fff", Target: "fff"},
	{Source: "Train US18 mort au remisage", Target: "Train US18 dead in storage"},
	{Source: "los ast 12a/b estan mojados", Target: "The AST 12A/B are wet"},
	{Source: "cop enchufe butaca 14a r3 esta\u0081 suelto", Target: "COP seat plug 14A R3 is loose"},
	{Source: "cop r1 asiento 4a enchufe suelto", Target: "COP R1 seat 4A plug is loose"},
	{Source: "enchufe 3a suelto", Target: "Plug 3A loose"},
	{Source: "enchufe butaca ast 1a suelto", Target: "AST seat plug 1A loose"},
	{Source: "enchufe plaza 4a suelto", Target: "Plaza plug 4A loose"},
	{Source: "r1 enchufe butaca 8a suelto", Target: "R1 seat plug 8A loose"},
	{Source: "persiana 8d 9d inutil", Target: "Blinds 8D 9D useless"},
	{Source: "puesta a 0 bombas wc", Target: "WC pumps reset"},
	{Source: "bomba bano izdo para cambiar y fuga en", Target: "Left bathroom pump to change and leak in"},
	{Source: "cop wcs r1 y r3 no funcionull", Target: "COP WCs R1 and R3 not working"},
	{Source: "cop wc del c3 averiado", Target: "COP WC of C3 broken"},
	{Source: "cop wcs r1 y r2 fuera de servicio", Target: "COP WCs R1 and R2 out of service"},
	{Source: "cop wcs r3 y r8 sin agua", Target: "COP WCs R3 and R8 without water"},
	{Source: "wcs r7 condenados por no tragar el", Target: "WCs R7 condemned for not flushing"},
	{Source: "wcs r1 y r2 llenos", Target: "WCs R1 and R2 full"},
	{Source: "cop c 2 ast3a(detra\u0081s) enchufe suelto", Target: "COP C 2 AST3A (behind) plug loose"},
	{Source: "fuga en lavamanos del coche 7", Target: "Leak in the washbasin of car 7"},
	{Source: "cop wcs r1 y r8 llenos wc r2 atascado", Target: "COP WCs R1 and R8 full, WC R2 clogged"},
	{Source: "cop wcs r1 r3 r5 r6 r8 atascados", Target: "COP WCs R1 R3 R5 R6 R8 clogged"},
	{Source: "cop dos wc inutiles c 5 lado c d y", Target: "COP two useless WCs C 5 side C D and"},
	{Source: "cop wcs r7 y r8 sin agua", Target: "COP WCs R7 and R8 without water"},
	{Source: "wcs de todo el tren apestan", Target: "WCs of the whole train stink"},
	{Source: "enchufe suelto wc c5", Target: "WC C5 plug loose"},
	{Source: "wcs r2 y r3 llenos", Target: "WCs R2 and R3 full"},
	{Source: "wcs r1 r2 r3 y r7 llenos", Target: "WCs R1 R2 R3 and R7 full"},
	{Source: "utr >o03", Target: "UTR >O03"},
	{Source: "wcs r6 no sale agua", Target: "WCs R6 no water"},
	{Source: "no actua secamanos wc minusvalidos", Target: "Disabled WC hand dryer not working"},
	{Source: "golpe tranvia con coche", Target: "Tram collision with car"},
	{Source: "shunt", Target: "Shunt"},
	{Source: "MA URG CP HS", Target: "MA URG CP HS"},
	{Source: "MANQUE OEILLET DE LEVAGE MASU", Target: "MISSING LIFTING EYELET MASU"},
	{Source: "MCM 5 isolé au démarrage de la rame", Target: "MCM 5 isolated at the start of the train"},
	{Source: "Reprendre porte 7 vis 1 et 3 sur bras d'entrainements supérieurs.", Target: "Resume door 7 screws 1 and 3 on upper drive arms"},
	{Source: "A reprendre porte 6 vis 1 sur bras d'entrainements supérieurs", Target: "Resume door 6 screws 1 on upper drive arms"},
	{Source: "6 lisseuses HS", Target: "6 smoothing machines HS"},
	{Source: "MCM1 isolé au démarrage de la rame", Target: "MCM1 isolated at the start of the train"},
	{Source: "BRUIT ECHAPPEMENT D AIR EN ROULANT PAR INTERMITTENCE TOUTES LES 30SEC ENVIRON", Target: "AIR EXHAUST NOISE WHILE DRIVING INTERMITTENTLY EVERY 30SEC APPROXIMATELY"},
	{Source: "Caméra vidéo surveillance porte 15 HS", Target: "Video surveillance camera door 15 HS"},
	{Source: "Cannibalisation rack BCU V11", Target: "Cannibalization rack BCU V11"},
	{Source: "RAck Video surveillance V11 HS", Target: "Rack Video surveillance V11 HS"},
	{Source: "wc hs fuite dans cuvette", Target: "WC HS leak in bowl"},
	{Source: "suite avm butée fenetre nc", Target: "Following AVM window stop NC"},
	{Source: "Caméra 4 vidéosurveilance en V15 HS", Target: "Camera 4 video surveillance in V15 HS"},
	{Source: "Porte intersalle V15 Ext2 claque en fin de course", Target: "Inter-room door V15 Ext2 slams at the end of the stroke"},
	{Source: "Porte de salle V11 Courroie détendue", Target: "Room door V11 Belt relaxed"},
	{Source: "Fuite d’eau dans le WC PMR", Target: "Water leak in the PMR WC"},
	{Source: "Porte intersalle V13 Ext 2 claque lors de l'ouverture (butée)", Target: "Inter-room door V13 Ext 2 slams during opening (stop)"},
	{Source: "porte intersalle V19 ext 2 courroie déssérée", Target: "Inter-room door V19 ext 2 belt loosened"},
	{Source: "044R_V11_Attelage_SAV BT:Fuite après coupe", Target: "044R_V11_Attelage_SAV BT: Leak after cut"},
	{Source: "V17 Ext 1 Porte intersalle Courroie fortement détendue", Target: "V17 Ext 1 Inter-room door Belt strongly relaxed"},
	{Source: "Fuite intérieure WC V15 Esclave", Target: "Interior leak WC V15 Slave"},
	{Source: "Reprise fixation porte et poignée toilette maitre/esclave", Target: "Resume door and handle fixing master/slave toilet"},
	{Source: "V17 LSS Maitre poignée désemparée", Target: "V17 LSS Master handle dismayed"},
	{Source: "réglage porte WC LSS V17 esclave", Target: "WC door adjustment LSS V17 slave"},
	{Source: "Pas de condamnation de la porte WC LSS Esclave V17", Target: "No condemnation of the WC door LSS Slave V17"},
	{Source: "Purge Bogie grippée", Target: "Seized bogie purge"},
	{Source: "DMB SYNAS EFTER RÅDJURSPÅKÖRNING", Target: "DMB inspection after deer collision"},
	{Source: "DMB RÅDJUR PÅKÖRT. SANERINGSBEHOV.", Target: "DMB deer hit. Cleaning needed."},
	{Source: "DMB SYNING PÅKÖRT DJUR SOM TOG PÅ VÄNSTER SIDA", Target: "DMB inspection hit animal that took on the left side"},
	{Source: "DMA LÖS SLANG I BOGGI 2", Target: "DMA loose hose in bogie 2"},
	{Source: "AXEL 1 OCH 2 DMB,BÖRJAN TILL MATERIALSLÄPP KLASS 1,HÅLLES UNDER-HÅLLES UNDER UPPSIKT! SVARV DMA DMB 8 ST AXLAR HGL 9 /11", Target: "AXLE 1 AND 2 DMB, BEGINNING TO MATERIAL RELEASE CLASS 1, MONITORED! TURNING DMA DMB 8 AXLES HGL 9 /11"},
	{Source: "TUGGUMMI-LITTERA DMA - SÄTE: 52 - DMA PLATS 52 NÄTFICKAN HAR KLADD AV TUGGUMMI PÅ SIG", Target: "CHEWING GUM-LITTERA DMA - SEAT: 52 - DMA PLACE 52 NET POCKET HAS CHEWING GUM ON IT"},
	{Source: "säten nr 37-43 avstängda. Blodfläckar och kiss.-Hysterisk resenär levde rövare", Target: "seats no. 37-43 closed. Blood stains and pee.-Hysterical passenger caused trouble"},
	{Source: "DMB SVANHALSMIKROFON GER INGET LJUD.", Target: "DMB SWAN NECK MICROPHONE GIVES NO SOUND."},
	{Source: "DMA: SKADAD BUSSNING HUNDBEN BG1", Target: "DMA: DAMAGED BUSHING DOG LEG BG1"},
	{Source: "Uppstäld brandgavel dörr-Ställde upp brandgavel dörr eftersom den inte öppnade. Verkar som att sensorerna slutat att fungera. SENSORSLUT I LAGER", Target: "Propped fire wall door-Proped fire wall door because it did not open. Seems like the sensors stopped working. SENSORS OUT OF STOCK"},
	{Source: "HJÄRTSTARTARE SLUT PÅ BATTERI, SLUTAT LARMA/PIPA", Target: "DEFIBRILLATOR OUT OF BATTERY, STOPPED ALARMING/BEEPING"},
	{Source: "Älgkollision, blodstänk, skakig i DmB, lös vajer-Kraftig träff. Fordonet täckt i blod vänster sida DMB. Lös vajer funnen axel 3. Upplevs lite skakigt i vagnen DMB i hastigheter över 90 km/h.", Target: "Moose collision, blood splatter, shaky in DmB, loose wire-Strong hit. Vehicle covered in blood on the left side DMB. Loose wire found axle 3. Feels a bit shaky in the DMB carriage at speeds over 90 km/h."},
	{Source: "klottrat i Ljusdal-Fordonet blev klottrat i Ljusdal natten mellan 13-14/7. Hela T0 och halva DMB.", Target: "Graffitied in Ljusdal-The vehicle was graffitied in Ljusdal the night between 13-14/7. The whole T0 and half DMB."},
	{Source: "DMB SMUTSIGA/SLITNA STOLSTYGER PLATS 24,29 & 43", Target: "DMB DIRTY/WORN SEAT FABRICS PLACE 24,29 & 43"},
	{Source: "toa avstängd-Med säkringen i k14. Drog luft", Target: "Toilet closed-With the fuse in k14. Drew air"},
	{Source: "DMA PLÅTAR UNDERREDE KONTROLL, BOTTENPLÅT LAGAD MED SIKA.", Target: "DMA PLATES UNDERCARRIAGE CONTROL, BOTTOM PLATE REPAIRED WITH SIKA."},
	{Source: "5 DMB HALKSKYDDSTEJP SAKNAS PÅ FLERA STÄLLEN-DMB TAK / KORRUGERAD PLÅT/ KÅPOR ANMÄRKNING RAPPORTERAD IGEN PGA EJ GODKÄNT ÅTGÄRDANDE. ANMÄRKNINGENS LÖPNUMMER I MSKS:22085982", Target: "5 DMB ANTI-SLIP TAPE MISSING IN SEVERAL PLACES-DMB ROOF / CORRUGATED SHEET METAL / COVERS REMARK REPORTED AGAIN DUE TO NOT APPROVED MEASURES. REMARK NUMBER IN MSKS:22085982"},
	{Source: "SKADADE KLACKAR FÖR UPPHÄNGNING AV EFTERSITSBORD. 2PLATSER", Target: "DAMAGED HOOKS FOR HANGING AFTER-SEAT TABLES. 2 PLACES"},
	{Source: "WO:2186908", Target: "WO:2186908"},
	{Source: "HALKSKYDDSTEJP SAKNAS VID STRÖMAVTAGARE (PÅBÖRJAT)-PÅBÖRJAD WO: 2178427", Target: "ANTI-SLIP TAPE MISSING AT PANTOGRAPH (STARTED)-STARTED WO: 2178427"},
	{Source: "SAKNAS HALKSKYDDSTEJP VID STRÖMAVTAGARE (PÅBÖRJAT)", Target: "MISSING ANTI-SLIP TAPE AT PANTOGRAPH (STARTED)"},
	{Source: "DMB - KLOTTER CA 35 KVM HÖGER SIDA", Target: "DMB - GRAFFITI APPROX. 35 SQM RIGHT SIDE"},
	{Source: "DMB:BOGGI1 LÄNKARMAR DEFEKTA BUSSNINGAR", Target: "DMB:BOGIE 1 LINK ARMS DEFECTIVE BUSHINGS"},
	{Source: "DMB BOGGI 1 SLAG I HJUL-FÖR TUNNA FÖR SVARV BYTE PLANERAS IN", Target: "DMB BOGIE 1 HIT IN WHEEL-TOO THIN FOR TURNING, REPLACEMENT PLANNED"},
	{Source: "VAGNSKORG. PÅKÖRD MÄNNISKA. OKLART VILKEN ÄNDE SOM VAR LEDANDE VI-HÄNDELSEDATUM: 2023/03/29 15:48TÅGNUMMER: 8533SAMMANFATTNING: PÅKÖRD MÄNNISKA. OKLART VILKEN ÄNDE SOM VAR LEDANDE VID TILLFÄLLET. SANERAD, KOPPELKÅPA TRASIG.", Target: "CAR BODY. HIT PERSON. UNCLEAR WHICH END WAS LEADING WE-EVENT DATE: 2023/03/29 15:48TRAIN NUMBER: 8533SUMMARY: HIT PERSON. UNCLEAR WHICH END WAS LEADING AT THE TIME. SANITIZED, COUPLER HOOD DAMAGED."},
	{Source: "DMB LUFTLÄCKA I K4 SKÅPET, KRAN TILL ELHUVUD AVSTÄNGD", Target: "DMB AIR LEAK IN K4 CABINET, CRANE TO ELECTRICAL HEAD TURNED OFF"},
	{Source: "DMB. KOPPELKÅPA SKADAD EFTER VILTPÅKÖRNING.", Target: "DMB. Coupler hood damaged after wildlife collision."},
	{Source: "HANDIKAPPLIFT UR FUNKTION-LARMAR HELATIDEN, LÄRORESA FUNKADE INTE", Target: "Handicap lift out of order - alarms constantly, training trip did not work"},
	{Source: "SKUMSLÄCKARE TÖMD I VAGNEN", Target: "Foam extinguisher emptied in the carriage"},
	{Source: "Älgkrock-Damask skadad vä sida i färdriktning. Älgkrock.", Target: "Moose collision - Gaiter damaged on the left side in the direction of travel. Moose collision."},
	{Source: "DMB K4 KRAN ELHUVUD IN AVSTÄNGD, LÄCKER LUFT", Target: "DMB K4 crane electric head in off, leaking air"},
	{Source: "DMB KLOTTER HÖGER SIDA CA 15KVM", Target: "DMB graffiti right side approx. 15 sqm"},
	{Source: "123 DMA INVÄNDIGT TOALETTVÄGG, TEJPRESTER. LU", Target: "123 DMA interior toilet wall, tape residue. LU"},
	{Source: "109 DMA INVÄNDIGT TEJPRESTER I ÖVERKANT PÅ FÖNSTERRAM VID PLATS-67 LU", Target: "109 DMA interior tape residue at the top of the window frame at seat 67. LU"},
	{Source: "DMB K8 KLOTTERTEJP SAKNAS", Target: "DMB K8 graffiti tape missing"},
	{Source: "159 DMB INVÄNDIGT TVK, ROSTFRITT FÄLT OVAN FÖNSTER, TEJPRESTER.-LU", Target: "159 DMB interior TVK, stainless steel field above the window, tape residue.-LU"},
	{Source: "142 DMB FLERTALET SMUTSIGA/SLITNA STOLSTYGER-DMB INVÄNDIGT/KUPE/VESTIBUL KONTROLL AV STOLAR FUNKTION/HELHET/INFÄSTNING, ANSVAR LU", Target: "142 DMB multiple dirty/worn seat fabrics - DMB interior/coupe/vestibule seat function/whole/attachment check, responsibility LU"},
	{Source: "25 DMB UNDERREDE AXEL 2 STATUS, HÖ, JORDKABEL, KARDELER AV. LU", Target: "25 DMB undercarriage axle 2 status, right, ground cable, strands off. LU"},
	{Source: "TOAAV, HANDIKAPPTOALETT SPOLADE EJ, EFTER RESET DRAR DEN LUFT HE-LA TIDEN.", Target: "TOAAV, handicap toilet did not flush, after reset it draws air all the time."},
	{Source: "DMB BOGGI A SLAG I HJUL", Target: "DMB bogie A hit in the wheel"},
	{Source: "Señalamiento: Vand atropello persona. Causa: vandalismo. Solución: Revisión de tren bajo bastidor con presencia de restos humanos", Target: "Signal: Vandal hit person. Cause: vandalism. Solution: Train inspection under frame with presence of human remains"},
	{Source: "Train 1117 jump station", Target: "Train 1117 skipped station"},
}
